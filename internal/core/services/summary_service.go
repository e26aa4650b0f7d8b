package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

const (
	defaultHistoryDays = 7
	maxHistoryDays     = 90
)

type summaryService struct {
	contestantRepo ports.ContestantRepository
	summaryRepo    ports.SummaryRepository
	now            func() time.Time
}

func NewSummaryService(contestantRepo ports.ContestantRepository, summaryRepo ports.SummaryRepository) ports.SummaryService {
	return &summaryService{
		contestantRepo: contestantRepo,
		summaryRepo:    summaryRepo,
		now:            time.Now,
	}
}

// SummarizeAllVotes rolls the vote ledger into per-day counts for every contestant.
func (s *summaryService) SummarizeAllVotes(ctx context.Context) error {
	contestants, err := s.contestantRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all contestants: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(contestants))

	for _, contestant := range contestants {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if err := s.summaryRepo.SummarizeVotes(ctx, id); err != nil {
				errChan <- fmt.Errorf("failed to summarize contestant %s: %w", id, err)
			}
		}(contestant.ID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *summaryService) History(ctx context.Context, contestantID string, days int) ([]domain.DailySummary, error) {
	id, err := uuid.Parse(contestantID)
	if err != nil {
		return nil, domain.Invalid("Contestant ID is invalid")
	}
	if days <= 0 {
		days = defaultHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	if _, err := s.contestantRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	since := s.now().UTC().AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	return s.summaryRepo.History(ctx, id, since)
}
