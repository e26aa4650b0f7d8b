package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

const commentColumns = `id, blog_post_id, name, email, content, is_approved, is_spam, likes,
	parent_comment_id, is_reply, ip_address, user_agent, created_at, updated_at`

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) ports.CommentRepository {
	return &commentRepository{
		db: db,
	}
}

func (r *commentRepository) ListApproved(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE blog_post_id = $1 AND is_approved = TRUE AND is_spam = FALSE
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, translate("failed to list comments", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("error iterating comments", err)
	}
	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, translate("failed to get comment", err)
	}
	return c, nil
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (` + commentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.BlogPostID, c.Name, c.Email, c.Content, c.IsApproved, c.IsSpam, c.Likes,
		c.ParentCommentID, c.IsReply, c.IPAddress, c.UserAgent, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return translate("failed to create comment", err)
	}
	return nil
}

func (r *commentRepository) SetModeration(ctx context.Context, id uuid.UUID, approved, spam bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET is_approved = $2, is_spam = $3, updated_at = NOW() WHERE id = $1`,
		id, approved, spam,
	)
	if err != nil {
		return translate("failed to moderate comment", err)
	}
	return requireAffected(result, domain.ErrCommentNotFound)
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var (
		c        domain.Comment
		parentID uuid.NullUUID
	)
	err := row.Scan(
		&c.ID, &c.BlogPostID, &c.Name, &c.Email, &c.Content, &c.IsApproved, &c.IsSpam, &c.Likes,
		&parentID, &c.IsReply, &c.IPAddress, &c.UserAgent, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentCommentID = &parentID.UUID
	}
	return &c, nil
}
