package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type summaryRepository struct {
	db *sql.DB
}

func NewSummaryRepository(db *sql.DB) ports.SummaryRepository {
	return &summaryRepository{
		db: db,
	}
}

func (r *summaryRepository) History(ctx context.Context, contestantID uuid.UUID, sinceDay string) ([]domain.DailySummary, error) {
	query := `
		SELECT to_char(day, 'YYYY-MM-DD'), contestant_id, vote_count, last_updated_at
		FROM vote_daily_summaries
		WHERE contestant_id = $1 AND day >= $2::date
		ORDER BY day ASC
	`

	rows, err := r.db.QueryContext(ctx, query, contestantID, sinceDay)
	if err != nil {
		return nil, translate("failed to fetch vote history", err)
	}
	defer rows.Close()

	history := []domain.DailySummary{}
	for rows.Next() {
		var s domain.DailySummary
		if err := rows.Scan(&s.Day, &s.ContestantID, &s.VoteCount, &s.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote history: %w", err)
		}
		history = append(history, s)
	}

	if err := rows.Err(); err != nil {
		return nil, translate("error iterating vote history", err)
	}

	return history, nil
}

// SummarizeVotes recomputes the per-day counts of valid votes for one contestant.
func (r *summaryRepository) SummarizeVotes(ctx context.Context, contestantID uuid.UUID) error {
	query := `
		INSERT INTO vote_daily_summaries (contestant_id, day, vote_count, last_updated_at)
		SELECT contestant_id, (vote_date AT TIME ZONE 'UTC')::date, COUNT(*), NOW()
		FROM votes
		WHERE contestant_id = $1 AND is_valid = TRUE
		GROUP BY contestant_id, (vote_date AT TIME ZONE 'UTC')::date
		ON CONFLICT (contestant_id, day) DO UPDATE
		SET vote_count = EXCLUDED.vote_count,
		    last_updated_at = NOW();
	`

	_, err := r.db.ExecContext(ctx, query, contestantID)
	if err != nil {
		return translate(fmt.Sprintf("failed to summarize votes for contestant %s", contestantID), err)
	}

	return nil
}
