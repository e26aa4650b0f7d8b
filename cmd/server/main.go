package main

import (
	"context"
	"errors"
	"flag"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/fanvote/internal/adapters/handler/graphql"
	"github.com/vncsmyrnk/fanvote/internal/adapters/handler/http"
	"github.com/vncsmyrnk/fanvote/internal/adapters/notify"
	"github.com/vncsmyrnk/fanvote/internal/adapters/ratelimit"
	"github.com/vncsmyrnk/fanvote/internal/adapters/realtime"
	"github.com/vncsmyrnk/fanvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/fanvote/internal/config"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
	"github.com/vncsmyrnk/fanvote/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	var port string
	flag.StringVar(&port, "port", cfg.Port, "HTTP port")
	flag.Parse()

	logger := config.NewLogger(cfg.Log)
	cfg.WatchLogLevel(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancelOpen := context.WithTimeout(ctx, cfg.StoreTimeout)
	db, err := postgres.Open(openCtx, cfg.DSN(), postgres.PoolConfig{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	})
	cancelOpen()
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	contestantRepo := postgres.NewContestantRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	summaryRepo := postgres.NewSummaryRepository(db)
	blogRepo := postgres.NewBlogRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	origins := http.NewOriginPolicy(cfg.Origins(), !cfg.IsProduction())
	hub := realtime.NewHub(logger.WithField("component", "realtime"), origins.CheckOrigin)
	defer hub.Close()

	var notifier ports.Notifier = hub
	var apiLimiter, voteLimiter, commentLimiter ports.RateLimiter

	rl := cfg.RateLimit
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatal("failed to connect to redis")
		}

		relay := notify.NewRedisNotifier(rdb, notify.DefaultChannel, hub, logger.WithField("component", "notify"))
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.WithError(err).Error("event relay stopped")
			}
		}()
		notifier = relay

		apiLimiter = ratelimit.NewRedisLimiter(rdb, "api", rl.APIRequests, rl.APIWindow)
		voteLimiter = ratelimit.NewRedisLimiter(rdb, "vote", rl.VoteRequests, rl.VoteWindow)
		commentLimiter = ratelimit.NewRedisLimiter(rdb, "comment", rl.CommentRequests, rl.CommentWindow)
		logger.Info("using redis for rate limits and event fan-out")
	} else {
		apiLimiter = ratelimit.NewMemoryLimiter(rl.APIRequests, rl.APIWindow)
		voteLimiter = ratelimit.NewMemoryLimiter(rl.VoteRequests, rl.VoteWindow)
		commentLimiter = ratelimit.NewMemoryLimiter(rl.CommentRequests, rl.CommentWindow)
	}

	// Services
	policy, err := services.NewAdmissionPolicy(cfg.VotingMode, voteRepo)
	if err != nil {
		logger.WithError(err).Fatal("invalid voting mode")
	}
	voteService := services.NewVoteService(contestantRepo, voteRepo, policy, notifier, logger.WithField("component", "voting"), cfg.StoreTimeout)
	contestantService := services.NewContestantService(contestantRepo, notifier, logger.WithField("component", "contestants"))
	blogService := services.NewBlogService(blogRepo, commentRepo, notifier, logger.WithField("component", "blog"))
	summaryService := services.NewSummaryService(contestantRepo, summaryRepo)
	authService := services.NewAuthService(cfg.AdminJWTSecret, cfg.AdminTokenTTL)
	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET is not set: admin routes will reject every request")
	}

	schema, err := graphql.NewSchema(voteService)
	if err != nil {
		logger.WithError(err).Fatal("failed to build graphql schema")
	}

	handler := http.NewHandler(http.RouterConfig{
		VoteHandler:    http.NewVoteHandler(voteService, summaryService),
		BlogHandler:    http.NewBlogHandler(blogService),
		AdminHandler:   http.NewAdminHandler(contestantService, blogService),
		AuthHandler:    http.NewAuthHandler(authService),
		AuthService:    authService,
		Realtime:       hub,
		GraphQL:        graphql.NewHandler(schema, http.Fingerprint),
		Logger:         logger,
		Origins:        origins,
		APILimiter:     apiLimiter,
		VoteLimiter:    voteLimiter,
		CommentLimiter: commentLimiter,
		StaticDir:      cfg.StaticDir,
		Version:        cfg.Version,
		RequestTimeout: 30 * time.Second,
	})
	server := &stdhttp.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":        port,
			"voting_mode": policy.Mode(),
			"env":         cfg.Env,
		}).Info("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("forced shutdown")
		os.Exit(1)
	}
}
