package http

import (
	"context"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type contextKey string

const AdminKey contextKey = "admin"

// Fingerprint identifies the caller by network address. It runs after
// middleware.RealIP, so RemoteAddr already reflects the forwarded client.
func Fingerprint(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return ip
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", "default-src 'self';base-uri 'self';font-src 'self' https: data:;form-action 'self';frame-ancestors 'self';img-src 'self' data: https:;object-src 'none';script-src 'self';script-src-attr 'none';style-src 'self' https: 'unsafe-inline';connect-src 'self' ws: wss:;upgrade-insecure-requests")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")
		h.Set("Origin-Agent-Cluster", "?1")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("X-Download-Options", "noopen")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-Permitted-Cross-Domain-Policies", "none")
		h.Set("X-XSS-Protection", "0")
		next.ServeHTTP(w, r)
	})
}

// OriginPolicy decides which browser origins may call the API.
type OriginPolicy struct {
	allowed       map[string]struct{}
	allowLocalDev bool
}

func NewOriginPolicy(origins []string, allowLocalDev bool) *OriginPolicy {
	allowed := map[string]struct{}{
		"http://localhost:8080": {},
		"http://127.0.0.1:8080": {},
		"http://localhost:3000": {},
		"http://127.0.0.1:3000": {},
	}
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &OriginPolicy{allowed: allowed, allowLocalDev: allowLocalDev}
}

func (p *OriginPolicy) Allowed(origin string) bool {
	if origin == "" || strings.HasPrefix(origin, "file://") || origin == "null" {
		return true
	}
	if _, ok := p.allowed[strings.TrimRight(origin, "/")]; ok {
		return true
	}
	if p.allowLocalDev {
		if u, err := url.Parse(origin); err == nil {
			host := u.Hostname()
			return host == "localhost" || host == "127.0.0.1"
		}
	}
	return false
}

// CheckOrigin adapts the policy for the WebSocket upgrader.
func (p *OriginPolicy) CheckOrigin(r *http.Request) bool {
	return p.Allowed(r.Header.Get("Origin"))
}

// Reject answers 403 to browser origins outside the policy before any
// handler runs. Allowed origins get their CORS headers from Handler.
func (p *OriginPolicy) Reject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if !p.Allowed(origin) {
			logEntry(r).WithField("origin", origin).Info("CORS rejected origin")
			fail(w, http.StatusForbidden, "Not allowed by CORS", "cors_rejected")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handler writes CORS response headers and answers preflight requests.
func (p *OriginPolicy) Handler(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return p.Allowed(origin)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           600,
	})(next)
}

// RateLimit rejects callers that exceed limiter's budget for scope. Limiter
// failures let the request through.
func RateLimit(limiter ports.RateLimiter, scope, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := limiter.Allow(r.Context(), scope+":"+Fingerprint(r))
			if err != nil {
				logEntry(r).WithError(err).WithField("scope", scope).Warn("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			reset := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
			if reset < 0 {
				reset = 0
			}
			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(decision.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(reset))

			if !decision.Allowed {
				h.Set("Retry-After", strconv.Itoa(reset))
				fail(w, http.StatusTooManyRequests, message, "rate_limited")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly requires a valid admin bearer token.
func AdminOnly(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				fail(w, http.StatusUnauthorized, "Unauthorized: missing bearer token", domain.Reason(domain.ErrUnauthorized))
				return
			}

			admin, err := auth.VerifyAdminToken(token)
			if err != nil {
				logEntry(r).WithError(err).Info("rejected admin token")
				fail(w, http.StatusUnauthorized, "Unauthorized: invalid token", domain.Reason(domain.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), AdminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
