package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) HasVoted(ctx context.Context, dayKey string, contestantID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM votes WHERE day_key = $1 AND contestant_id = $2 AND is_valid = TRUE LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, dayKey, contestantID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, translate("failed to check existing vote", err)
	}
	return true, nil
}

func (r *voteRepository) CountByDayKey(ctx context.Context, dayKey string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE day_key = $1 AND is_valid = TRUE`, dayKey,
	).Scan(&count)
	if err != nil {
		return 0, translate("failed to count daily votes", err)
	}
	return count, nil
}

func (r *voteRepository) ListByDayKey(ctx context.Context, dayKey string) ([]domain.VotedContestant, error) {
	query := `
		SELECT v.contestant_id, c.name, v.vote_date
		FROM votes v
		JOIN contestants c ON c.id = v.contestant_id
		WHERE v.day_key = $1 AND v.is_valid = TRUE
		ORDER BY v.vote_date ASC
	`
	rows, err := r.db.QueryContext(ctx, query, dayKey)
	if err != nil {
		return nil, translate("failed to list daily votes", err)
	}
	defer rows.Close()

	voted := []domain.VotedContestant{}
	for rows.Next() {
		var v domain.VotedContestant
		if err := rows.Scan(&v.ContestantID, &v.ContestantName, &v.VoteTime); err != nil {
			return nil, fmt.Errorf("failed to scan daily vote: %w", err)
		}
		voted = append(voted, v)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("error iterating daily votes", err)
	}
	return voted, nil
}

// Record appends vote to the ledger and bumps the contestant counter in one
// transaction. With a positive dailyLimit the day key is locked for the rest
// of the transaction so concurrent attempts from one fingerprint are counted
// one at a time.
func (r *voteRepository) Record(ctx context.Context, vote *domain.Vote, dailyLimit int) (*ports.RecordedVote, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, translate("failed to begin transaction", err)
	}
	defer tx.Rollback()

	dailyCount := 0
	if dailyLimit > 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, vote.DayKey); err != nil {
			return nil, translate("failed to lock day key", err)
		}

		var count int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM votes WHERE day_key = $1 AND is_valid = TRUE`, vote.DayKey,
		).Scan(&count)
		if err != nil {
			return nil, translate("failed to count daily votes", err)
		}
		if count >= dailyLimit {
			return nil, domain.ErrQuotaExceeded
		}
		dailyCount = count + 1
	}

	insert := `
		INSERT INTO votes (id, contestant_id, voter_ip, day_key, guard_key, vote_date, user_agent, source, is_valid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, insert,
		vote.ID, vote.ContestantID, vote.VoterIP, vote.DayKey, vote.GuardKey,
		vote.VoteDate, vote.UserAgent, string(vote.Source), vote.IsValid,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyVoted
		}
		return nil, translate("failed to save vote", err)
	}

	increment := `
		UPDATE contestants
		SET votes = votes + 1, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
		RETURNING ` + contestantColumns

	contestant, err := scanContestant(tx.QueryRowContext(ctx, increment, vote.ContestantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContestantNotFound
		}
		return nil, translate("failed to increment votes", err)
	}

	var total int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(votes), 0) FROM contestants WHERE is_active = TRUE`,
	).Scan(&total)
	if err != nil {
		return nil, translate("failed to sum active votes", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, translate("failed to commit transaction", err)
	}

	return &ports.RecordedVote{
		Contestant:  *contestant,
		DailyCount:  dailyCount,
		ActiveTotal: total,
	}, nil
}

func (r *voteRepository) CountValid(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE is_valid = TRUE`).Scan(&count); err != nil {
		return 0, translate("failed to count votes", err)
	}
	return count, nil
}

func (r *voteRepository) CountValidSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE is_valid = TRUE AND vote_date >= $1`, since,
	).Scan(&count)
	if err != nil {
		return 0, translate("failed to count recent votes", err)
	}
	return count, nil
}
