package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

const contestantColumns = `id, name, description, image, votes, is_active, season,
	elimination_date, entry_date, social_links, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type contestantRepository struct {
	db *sql.DB
}

func NewContestantRepository(db *sql.DB) ports.ContestantRepository {
	return &contestantRepository{
		db: db,
	}
}

func (r *contestantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contestant, error) {
	query := `SELECT ` + contestantColumns + ` FROM contestants WHERE id = $1`

	contestant, err := scanContestant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContestantNotFound
		}
		return nil, translate("failed to get contestant", err)
	}
	return contestant, nil
}

func (r *contestantRepository) ListActive(ctx context.Context) ([]domain.Contestant, error) {
	query := `
		SELECT ` + contestantColumns + `
		FROM contestants
		WHERE is_active = TRUE
		ORDER BY votes DESC, name ASC
	`
	return r.list(ctx, "failed to list active contestants", query)
}

func (r *contestantRepository) ListAll(ctx context.Context) ([]domain.Contestant, error) {
	query := `
		SELECT ` + contestantColumns + `
		FROM contestants
		ORDER BY votes DESC, name ASC
	`
	return r.list(ctx, "failed to list contestants", query)
}

func (r *contestantRepository) TopActive(ctx context.Context, limit int) ([]domain.TopContestant, error) {
	query := `
		SELECT id, name, votes
		FROM contestants
		WHERE is_active = TRUE
		ORDER BY votes DESC, name ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, translate("failed to fetch top contestants", err)
	}
	defer rows.Close()

	top := []domain.TopContestant{}
	for rows.Next() {
		var t domain.TopContestant
		if err := rows.Scan(&t.ID, &t.Name, &t.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan top contestant: %w", err)
		}
		top = append(top, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("error iterating top contestants", err)
	}
	return top, nil
}

func (r *contestantRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contestants WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		return 0, translate("failed to count active contestants", err)
	}
	return count, nil
}

func (r *contestantRepository) Create(ctx context.Context, c *domain.Contestant) error {
	links, err := json.Marshal(c.SocialLinks)
	if err != nil {
		return fmt.Errorf("failed to encode social links: %w", err)
	}

	query := `
		INSERT INTO contestants (id, name, description, image, votes, is_active, season,
			elimination_date, entry_date, social_links, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.Image, c.Votes, c.IsActive, c.Season,
		c.EliminationDate, c.EntryDate, links, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return translate("failed to create contestant", err)
	}
	return nil
}

// Update writes the editable fields. The vote counter is owned by the voting
// path and DecrementVotes, so it is never overwritten here.
func (r *contestantRepository) Update(ctx context.Context, c *domain.Contestant) error {
	links, err := json.Marshal(c.SocialLinks)
	if err != nil {
		return fmt.Errorf("failed to encode social links: %w", err)
	}

	query := `
		UPDATE contestants
		SET name = $2, description = $3, image = $4, is_active = $5, season = $6,
			elimination_date = $7, social_links = $8, updated_at = $9
		WHERE id = $1
		RETURNING votes
	`
	err = r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Description, c.Image, c.IsActive, c.Season,
		c.EliminationDate, links, c.UpdatedAt,
	).Scan(&c.Votes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrContestantNotFound
		}
		return translate("failed to update contestant", err)
	}
	return nil
}

func (r *contestantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contestants WHERE id = $1`, id)
	if err != nil {
		return translate("failed to delete contestant", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrContestantNotFound
	}
	return nil
}

func (r *contestantRepository) DecrementVotes(ctx context.Context, id uuid.UUID) (*domain.Contestant, error) {
	query := `
		UPDATE contestants
		SET votes = GREATEST(votes - 1, 0), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + contestantColumns

	contestant, err := scanContestant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContestantNotFound
		}
		return nil, translate("failed to decrement votes", err)
	}
	return contestant, nil
}

func (r *contestantRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Contestant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	contestants := []domain.Contestant{}
	for rows.Next() {
		c, err := scanContestant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contestant: %w", err)
		}
		contestants = append(contestants, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(op, err)
	}
	return contestants, nil
}

func scanContestant(row rowScanner) (*domain.Contestant, error) {
	var (
		c     domain.Contestant
		links []byte
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Image, &c.Votes, &c.IsActive, &c.Season,
		&c.EliminationDate, &c.EntryDate, &links, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &c.SocialLinks); err != nil {
			return nil, fmt.Errorf("failed to decode social links: %w", err)
		}
	}
	return &c, nil
}
