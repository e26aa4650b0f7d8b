package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

const (
	postColumns = `id, title, slug, content, excerpt, featured_image, category, tags, author,
	meta_description, meta_keywords, view_count, share_count, is_published, is_featured,
	published_at, created_at, updated_at`
	// summaryPostColumns leaves out content, which listings never return.
	summaryPostColumns = `id, title, slug, '' AS content, excerpt, featured_image, category, tags, author,
	meta_description, meta_keywords, view_count, share_count, is_published, is_featured,
	published_at, created_at, updated_at`
)

type blogRepository struct {
	db *sql.DB
}

func NewBlogRepository(db *sql.DB) ports.BlogRepository {
	return &blogRepository{
		db: db,
	}
}

func (r *blogRepository) ListPublished(ctx context.Context, category string, limit, offset int) ([]domain.BlogPost, error) {
	query := `
		SELECT ` + summaryPostColumns + `
		FROM blog_posts
		WHERE is_published = TRUE AND ($1::text = '' OR category = $1::text)
		ORDER BY published_at DESC NULLS LAST, created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, "failed to list posts", query, category, limit, offset)
}

func (r *blogRepository) CountPublished(ctx context.Context, category string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE is_published = TRUE AND ($1::text = '' OR category = $1::text)`, category,
	).Scan(&count)
	if err != nil {
		return 0, translate("failed to count posts", err)
	}
	return count, nil
}

func (r *blogRepository) Featured(ctx context.Context, limit int) ([]domain.BlogPost, error) {
	query := `
		SELECT ` + summaryPostColumns + `
		FROM blog_posts
		WHERE is_published = TRUE AND is_featured = TRUE
		ORDER BY published_at DESC NULLS LAST
		LIMIT $1
	`
	return r.list(ctx, "failed to list featured posts", query, limit)
}

func (r *blogRepository) Recent(ctx context.Context, limit int) ([]domain.BlogPost, error) {
	query := `
		SELECT ` + summaryPostColumns + `
		FROM blog_posts
		WHERE is_published = TRUE
		ORDER BY published_at DESC NULLS LAST
		LIMIT $1
	`
	return r.list(ctx, "failed to list recent posts", query, limit)
}

func (r *blogRepository) GetPublishedBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1 AND is_published = TRUE`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, translate("failed to get post", err)
	}
	return post, nil
}

func (r *blogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, translate("failed to get post", err)
	}
	return post, nil
}

func (r *blogRepository) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.increment(ctx, "view_count", id)
}

func (r *blogRepository) IncrementShares(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.increment(ctx, "share_count", id)
}

func (r *blogRepository) ListAll(ctx context.Context) ([]domain.BlogPost, error) {
	query := `SELECT ` + summaryPostColumns + ` FROM blog_posts ORDER BY created_at DESC`
	return r.list(ctx, "failed to list all posts", query)
}

func (r *blogRepository) SlugTaken(ctx context.Context, slug string, except uuid.UUID) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM blog_posts WHERE slug = $1 AND id <> $2 LIMIT 1`, slug, except,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, translate("failed to check slug", err)
	}
	return true, nil
}

func (r *blogRepository) Create(ctx context.Context, p *domain.BlogPost) error {
	query := `
		INSERT INTO blog_posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, string(p.Category),
		pq.Array(p.Tags), p.Author, p.MetaDescription, pq.Array(p.MetaKeywords),
		p.ViewCount, p.ShareCount, p.IsPublished, p.IsFeatured, p.PublishedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return translate("failed to create post", err)
	}
	return nil
}

func (r *blogRepository) Update(ctx context.Context, p *domain.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET title = $2, slug = $3, content = $4, excerpt = $5, featured_image = $6, category = $7,
			tags = $8, author = $9, meta_description = $10, meta_keywords = $11,
			is_published = $12, is_featured = $13, published_at = $14, updated_at = $15
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, string(p.Category),
		pq.Array(p.Tags), p.Author, p.MetaDescription, pq.Array(p.MetaKeywords),
		p.IsPublished, p.IsFeatured, p.PublishedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return translate("failed to update post", err)
	}
	return requireAffected(result, domain.ErrPostNotFound)
}

func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return translate("failed to delete post", err)
	}
	return requireAffected(result, domain.ErrPostNotFound)
}

func (r *blogRepository) increment(ctx context.Context, column string, id uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`UPDATE blog_posts SET %[1]s = %[1]s + 1 WHERE id = $1 RETURNING %[1]s`, column)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrPostNotFound
		}
		return 0, translate("failed to increment "+column, err)
	}
	return count, nil
}

func (r *blogRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.BlogPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	posts := []domain.BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(op, err)
	}
	return posts, nil
}

func scanPost(row rowScanner) (*domain.BlogPost, error) {
	var (
		p        domain.BlogPost
		category string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage, &category,
		pq.Array(&p.Tags), &p.Author, &p.MetaDescription, pq.Array(&p.MetaKeywords),
		&p.ViewCount, &p.ShareCount, &p.IsPublished, &p.IsFeatured,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = domain.Category(category)
	return &p, nil
}

func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
