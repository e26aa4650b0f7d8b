package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type window struct {
	count   int
	resetAt time.Time
}

type memoryLimiter struct {
	mu        sync.Mutex
	limit     int
	period    time.Duration
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter counts requests per key in fixed windows held in process
// memory. Counters are not shared between server instances.
func NewMemoryLimiter(limit int, period time.Duration) ports.RateLimiter {
	return &memoryLimiter{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (ports.RateDecision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.period {
		l.sweep(now)
		l.lastSweep = now
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++

	return decide(l.limit, w.count, w.resetAt), nil
}

// sweep drops expired windows so idle keys do not accumulate.
func (l *memoryLimiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

func decide(limit, count int, resetAt time.Time) ports.RateDecision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return ports.RateDecision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
