package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/fanvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/fanvote/internal/config"
)

// Usage: migrations <name>|up|down
//
// A name runs the first file matching "<name>.sql", e.g. "create_votes.up".
// "up" applies every *.up.sql in order and "down" every *.down.sql in reverse.
func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("a migration name is required.")
	}
	migrationName := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	logger := config.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	db, err := postgres.Open(ctx, cfg.DSN(), postgres.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	cancel()
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")

	var files []string
	switch migrationName {
	case "up":
		files, err = migrationFiles(basePath, ".up.sql", false)
	case "down":
		files, err = migrationFiles(basePath, ".down.sql", true)
	default:
		var file string
		file, err = migrationFilePath(basePath, migrationName)
		files = []string{file}
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to resolve migrations")
	}

	for _, file := range files {
		fileContent, err := os.ReadFile(filepath.Join(basePath, file))
		if err != nil {
			logger.WithError(err).Fatal("failed to read migration file")
		}

		if _, err := db.Exec(string(fileContent)); err != nil {
			logger.WithError(err).WithField("file", file).Fatal("failed to execute SQL file")
		}
		logger.WithField("file", file).Info("migration file executed successfully")
	}
}

func migrationFiles(basePath, suffix string, reverse bool) ([]string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s migrations found", suffix)
	}

	sort.Strings(files)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

func migrationFilePath(basePath string, migrationName string) (string, error) {
	patternStr := fmt.Sprintf(`^.*%s\.sql`, regexp.QuoteMeta(migrationName))

	regex, err := regexp.Compile(patternStr)
	if err != nil {
		return "", fmt.Errorf("invalid pattern: %w", err)
	}

	files, _ := os.ReadDir(basePath)
	for _, f := range files {
		if f.IsDir() {
			continue
		}

		if regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file not found")
}
