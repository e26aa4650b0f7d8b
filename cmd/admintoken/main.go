package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/fanvote/internal/config"
	"github.com/vncsmyrnk/fanvote/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	var subject string
	var ttl time.Duration
	flag.StringVar(&subject, "sub", "admin", "Token subject")
	flag.DurationVar(&ttl, "ttl", cfg.AdminTokenTTL, "Token lifetime")
	flag.Parse()

	if cfg.AdminJWTSecret == "" {
		logrus.Fatal("ADMIN_JWT_SECRET is not set")
	}

	token, err := services.NewAuthService(cfg.AdminJWTSecret, ttl).IssueAdminToken(subject)
	if err != nil {
		logrus.WithError(err).Fatal("failed to issue admin token")
	}
	fmt.Println(token)
}
