package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

const (
	ModeQuota = "quota"
	ModeOpen  = "open"
)

// AdmissionPolicy decides whether a vote may be recorded. Check is a fast
// path only: the ledger's uniqueness constraint on the guard key is what
// actually prevents duplicates under concurrency.
type AdmissionPolicy interface {
	Mode() string
	// Check returns the number of votes already recorded for the day key
	// when the policy tracks it.
	Check(ctx context.Context, dayKey string, contestantID uuid.UUID) (int, error)
	GuardKey(dayKey string, voteID uuid.UUID) string
	// DailyLimit is zero when the policy does not cap votes per day.
	DailyLimit() int
}

func NewAdmissionPolicy(mode string, voteRepo ports.VoteRepository) (AdmissionPolicy, error) {
	switch mode {
	case ModeQuota, "":
		return &quotaPolicy{voteRepo: voteRepo, limit: domain.DailyVoteLimit}, nil
	case ModeOpen:
		return openPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown voting mode %q", mode)
	}
}

// quotaPolicy allows one vote per contestant and DailyVoteLimit votes in
// total per fingerprint per UTC day.
type quotaPolicy struct {
	voteRepo ports.VoteRepository
	limit    int
}

func (p *quotaPolicy) Mode() string { return ModeQuota }

func (p *quotaPolicy) Check(ctx context.Context, dayKey string, contestantID uuid.UUID) (int, error) {
	hasVoted, err := p.voteRepo.HasVoted(ctx, dayKey, contestantID)
	if err != nil {
		return 0, err
	}
	if hasVoted {
		return 0, domain.ErrAlreadyVoted
	}

	count, err := p.voteRepo.CountByDayKey(ctx, dayKey)
	if err != nil {
		return 0, err
	}
	if count >= p.limit {
		return count, domain.ErrQuotaExceeded
	}
	return count, nil
}

func (p *quotaPolicy) GuardKey(dayKey string, _ uuid.UUID) string { return dayKey }

func (p *quotaPolicy) DailyLimit() int { return p.limit }

// openPolicy accepts every vote for an active contestant. Repeat voting is
// only discouraged client-side and throttled by the submit rate limiter.
type openPolicy struct{}

func (openPolicy) Mode() string { return ModeOpen }

func (openPolicy) Check(context.Context, string, uuid.UUID) (int, error) { return 0, nil }

func (openPolicy) GuardKey(dayKey string, voteID uuid.UUID) string {
	return dayKey + "-" + voteID.String()
}

func (openPolicy) DailyLimit() int { return 0 }
