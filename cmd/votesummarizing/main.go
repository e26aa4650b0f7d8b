package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/fanvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/fanvote/internal/config"
	"github.com/vncsmyrnk/fanvote/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	var dbHost, dbPort, dbUser, dbPass, dbName string

	flag.StringVar(&dbHost, "db-host", cfg.Postgres.Host, "Database host")
	flag.StringVar(&dbPort, "db-port", cfg.Postgres.Port, "Database port")
	flag.StringVar(&dbUser, "db-user", cfg.Postgres.User, "Database user")
	flag.StringVar(&dbPass, "db-pass", cfg.Postgres.Password, "Database password")
	flag.StringVar(&dbName, "db-name", cfg.Postgres.DB, "Database name")
	flag.Parse()

	logger := config.NewLogger(cfg.Log)

	dsn := cfg.DSN()
	if cfg.DatabaseURL == "" {
		dsn = config.PostgresDSN(dbHost, dbPort, dbUser, dbPass, dbName)
	}

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, dsn, postgres.PoolConfig{
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	// Initialize Repositories
	contestantRepo := postgres.NewContestantRepository(db)
	summaryRepo := postgres.NewSummaryRepository(db)

	// Initialize Service
	summaryService := services.NewSummaryService(contestantRepo, summaryRepo)

	logger.Info("starting vote summarization job...")

	if err := summaryService.SummarizeAllVotes(ctx); err != nil {
		logger.WithError(err).Fatal("error summarizing votes")
	}

	logger.Info("vote summarization completed successfully")
}
