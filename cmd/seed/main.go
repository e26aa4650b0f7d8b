package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/fanvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/fanvote/internal/config"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type sampleContestant struct {
	name        string
	description string
	votes       int64
}

var contestants = []sampleContestant{
	{"Contestant 1", "Popular contestant with a strong fan base and a great personality", 2456},
	{"Contestant 2", "Entertaining personality with an excellent sense of the game", 1892},
	{"Contestant 3", "Strategic player with leadership qualities", 2134},
	{"Contestant 4", "Underdog with surprising popularity", 1567},
	{"Contestant 5", "Comedy king who keeps the house laughing", 1234},
	{"Contestant 6", "Strong personality with a strategic mind", 1789},
	{"Contestant 7", "Emotional and relatable with a loyal following", 1456},
	{"Contestant 8", "Wildcard entry with unpredictable moves", 1123},
}

type samplePost struct {
	title    string
	content  string
	category domain.Category
	tags     []string
	featured bool
}

var posts = []samplePost{
	{
		title:    "Top 10 Funniest Memes This Week",
		content:  "<p>This week had some of the most hilarious moments of the season, and the community captured every one of them.</p><h3>The Kitchen Drama</h3><p>A cooking attempt that nearly ended in disaster.</p>",
		category: domain.CategoryMemes,
		tags:     []string{"memes", "contestants", "funny"},
		featured: true,
	},
	{
		title:    "Weekly Contestant Performance Analysis",
		content:  "<p>Another week of drama and competition. Here is how every contestant performed.</p><h3>Top Performers</h3><p>Leadership skills kept the favourites on top.</p>",
		category: domain.CategoryAnalysis,
		tags:     []string{"analysis", "weekly"},
		featured: true,
	},
	{
		title:    "Behind the Scenes: A Day in the House",
		content:  "<p>What happens when the cameras stop rolling? A look at the daily routine inside the house.</p>",
		category: domain.CategoryBehindScenes,
		tags:     []string{"behind-scenes"},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	var force bool
	flag.BoolVar(&force, "force", false, "Seed even when tables already contain rows")
	flag.Parse()

	logger := config.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DSN(), postgres.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	contestantRepo := postgres.NewContestantRepository(db)
	blogRepo := postgres.NewBlogRepository(db)

	n, err := seedContestants(ctx, contestantRepo, force)
	if err != nil {
		logger.WithError(err).Fatal("failed to seed contestants")
	}
	logger.WithField("count", n).Info("seeded contestants")

	n, err = seedPosts(ctx, blogRepo, force)
	if err != nil {
		logger.WithError(err).Fatal("failed to seed blog posts")
	}
	logger.WithField("count", n).Info("seeded blog posts")
}

func seedContestants(ctx context.Context, repo ports.ContestantRepository, force bool) (int, error) {
	existing, err := repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 && !force {
		return 0, nil
	}

	now := time.Now()
	for i, s := range contestants {
		c := &domain.Contestant{
			ID:          uuid.New(),
			Name:        s.name,
			Description: s.description,
			Image:       fmt.Sprintf("images/contestant-%d.jpg", i+1),
			Votes:       s.votes,
			IsActive:    true,
			Season:      "current",
			EntryDate:   now,
			SocialLinks: domain.SocialLinks{
				Instagram: fmt.Sprintf("https://instagram.com/contestant%d", i+1),
				Twitter:   fmt.Sprintf("https://twitter.com/contestant%d", i+1),
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, c); err != nil {
			return i, err
		}
	}
	return len(contestants), nil
}

func seedPosts(ctx context.Context, repo ports.BlogRepository, force bool) (int, error) {
	existing, err := repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 && !force {
		return 0, nil
	}

	for i, s := range posts {
		published := time.Now().Add(-time.Duration(i) * 24 * time.Hour)
		p := &domain.BlogPost{
			ID:            uuid.New(),
			Title:         s.title,
			Slug:          domain.Slugify(s.title),
			Content:       s.content,
			Excerpt:       domain.ExcerptFrom(s.content),
			FeaturedImage: fmt.Sprintf("images/blog-post-%d.jpg", i+1),
			Category:      s.category,
			Tags:          s.tags,
			Author:        "Admin",
			IsPublished:   true,
			IsFeatured:    s.featured,
			PublishedAt:   &published,
			CreatedAt:     published,
			UpdatedAt:     published,
		}
		if err := repo.Create(ctx, p); err != nil {
			return i, err
		}
	}
	return len(posts), nil
}
