package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type RouterConfig struct {
	VoteHandler  *VoteHandler
	BlogHandler  *BlogHandler
	AdminHandler *AdminHandler
	AuthHandler  *AuthHandler
	AuthService  ports.AuthService

	Realtime http.Handler
	GraphQL  http.Handler

	Logger  logrus.FieldLogger
	Origins *OriginPolicy

	APILimiter     ports.RateLimiter
	VoteLimiter    ports.RateLimiter
	CommentLimiter ports.RateLimiter

	StaticDir      string
	Version        string
	RequestTimeout time.Duration
}

func NewHandler(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&StructuredLogger{Logger: cfg.Logger}))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	if cfg.Origins != nil {
		r.Use(cfg.Origins.Reject)
		r.Use(cfg.Origins.Handler)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "Route not found", "not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed", "method_not_allowed")
	})

	if cfg.Realtime != nil {
		r.Handle("/ws", cfg.Realtime)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}
		r.Use(limit(cfg.APILimiter, "api", "Too many requests from this IP, please try again later."))
		r.Use(middleware.AllowContentType("application/json"))

		r.Get("/health", health(cfg.Version))

		r.Route("/voting", func(r chi.Router) {
			r.Get("/contestants", cfg.VoteHandler.GetContestants)
			r.With(limit(cfg.VoteLimiter, "vote", "Too many voting requests, please try again later")).
				Post("/submit", cfg.VoteHandler.SubmitVote)
			r.Get("/status", cfg.VoteHandler.GetStatus)
			r.Get("/stats", cfg.VoteHandler.GetStats)
			r.Get("/contestants/{id}/history", cfg.VoteHandler.GetHistory)
		})

		if cfg.BlogHandler != nil {
			r.Route("/blog", func(r chi.Router) {
				r.Get("/posts", cfg.BlogHandler.ListPosts)
				r.Get("/featured", cfg.BlogHandler.Featured)
				r.Get("/post/{slug}", cfg.BlogHandler.GetPost)
				r.Post("/post/{slug}/share", cfg.BlogHandler.Share)
				r.With(limit(cfg.CommentLimiter, "comment", "Too many comments, please try again later")).
					Post("/post/{slug}/comment", cfg.BlogHandler.Comment)
			})
		}

		if cfg.AdminHandler != nil && cfg.AuthService != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(AdminOnly(cfg.AuthService))

				if cfg.AuthHandler != nil {
					r.Get("/session", cfg.AuthHandler.Session)
					r.Post("/session/refresh", cfg.AuthHandler.Refresh)
				}

				r.Route("/contestants", func(r chi.Router) {
					r.Get("/", cfg.AdminHandler.ListContestants)
					r.Post("/", cfg.AdminHandler.CreateContestant)
					r.Put("/{id}", cfg.AdminHandler.UpdateContestant)
					r.Delete("/{id}", cfg.AdminHandler.DeleteContestant)
					r.Post("/{id}/decrement", cfg.AdminHandler.DecrementVotes)
				})

				r.Route("/blog", func(r chi.Router) {
					r.Get("/", cfg.AdminHandler.ListPosts)
					r.Post("/", cfg.AdminHandler.CreatePost)
					r.Put("/{id}", cfg.AdminHandler.UpdatePost)
					r.Delete("/{id}", cfg.AdminHandler.DeletePost)
				})

				r.Post("/comments/{id}/approve", cfg.AdminHandler.ApproveComment)
				r.Post("/comments/{id}/spam", cfg.AdminHandler.MarkSpam)
			})
		}
	})

	if cfg.GraphQL != nil {
		r.Group(func(r chi.Router) {
			if cfg.RequestTimeout > 0 {
				r.Use(middleware.Timeout(cfg.RequestTimeout))
			}
			r.Use(limit(cfg.APILimiter, "api", "Too many requests from this IP, please try again later."))
			r.Handle("/graphql", cfg.GraphQL)
		})
	}

	if cfg.StaticDir != "" {
		r.Handle("/*", staticFiles(cfg.StaticDir))
	}

	return r
}

func limit(limiter ports.RateLimiter, scope, message string) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return RateLimit(limiter, scope, message)
}

func health(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "Fan voting API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"version":   version,
		})
	}
}

// staticFiles serves the frontend bundle. Unknown API paths still get a JSON 404.
func staticFiles(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			fail(w, http.StatusNotFound, "Route not found", "not_found")
			return
		}
		files.ServeHTTP(w, r)
	})
}
