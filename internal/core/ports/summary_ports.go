package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
)

type SummaryRepository interface {
	SummarizeVotes(ctx context.Context, contestantID uuid.UUID) error
	History(ctx context.Context, contestantID uuid.UUID, sinceDay string) ([]domain.DailySummary, error)
}

type SummaryService interface {
	SummarizeAllVotes(ctx context.Context) error
	History(ctx context.Context, contestantID string, days int) ([]domain.DailySummary, error)
}
