package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

const (
	topContestantsLimit = 3
	recentVotesWindow   = 24 * time.Hour
	broadcastTimeout    = 5 * time.Second
)

type voteService struct {
	contestantRepo ports.ContestantRepository
	voteRepo       ports.VoteRepository
	policy         AdmissionPolicy
	notifier       ports.Notifier
	log            logrus.FieldLogger
	storeTimeout   time.Duration
	now            func() time.Time
}

func NewVoteService(
	contestantRepo ports.ContestantRepository,
	voteRepo ports.VoteRepository,
	policy AdmissionPolicy,
	notifier ports.Notifier,
	log logrus.FieldLogger,
	storeTimeout time.Duration,
) ports.VoteService {
	return &voteService{
		contestantRepo: contestantRepo,
		voteRepo:       voteRepo,
		policy:         policy,
		notifier:       notifier,
		log:            log,
		storeTimeout:   storeTimeout,
		now:            time.Now,
	}
}

func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (*ports.VoteResult, error) {
	rawID := strings.TrimSpace(input.ContestantID)
	if rawID == "" {
		return nil, domain.Invalid("Contestant ID is required")
	}
	contestantID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, domain.Invalid("Contestant ID is invalid")
	}

	readCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	contestant, err := s.contestantRepo.GetByID(readCtx, contestantID)
	if err != nil {
		return nil, err
	}
	if !contestant.IsActive {
		return nil, domain.ErrContestantNotFound
	}

	now := s.now()
	dayKey := domain.DayKey(input.Fingerprint, now)

	if _, err := s.policy.Check(readCtx, dayKey, contestantID); err != nil {
		return nil, err
	}

	voteID := uuid.New()
	vote := &domain.Vote{
		ID:           voteID,
		ContestantID: contestantID,
		VoterIP:      input.Fingerprint,
		DayKey:       dayKey,
		GuardKey:     s.policy.GuardKey(dayKey, voteID),
		VoteDate:     now,
		UserAgent:    input.UserAgent,
		Source:       domain.ParseSource(input.Platform),
		IsValid:      true,
	}

	// Once admitted, the write is not rolled back if the caller goes away.
	writeCtx, cancelWrite := context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
	defer cancelWrite()

	recorded, err := s.voteRepo.Record(writeCtx, vote, s.policy.DailyLimit())
	if err != nil {
		return nil, err
	}
	updated := recorded.Contestant
	total := recorded.ActiveTotal

	result := &ports.VoteResult{
		Contestant: domain.ContestantStanding{
			Contestant:     updated,
			VotePercentage: domain.VotePercentage(updated.Votes, total),
		},
		TotalVotes: total,
	}
	if limit := s.policy.DailyLimit(); limit > 0 {
		remaining := max(0, limit-recorded.DailyCount)
		result.RemainingVotes = &remaining
	}

	s.broadcast(ctx, domain.RoomVoting, domain.EventVoteUpdate, domain.VoteUpdate{
		ContestantID:   contestantID,
		NewVoteCount:   updated.Votes,
		VotePercentage: result.Contestant.VotePercentage,
		TotalVotes:     total,
	})

	return result, nil
}

func (s *voteService) Contestants(ctx context.Context) (*ports.ContestantList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	active, err := s.contestantRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	standings, total := domain.Standings(active)
	return &ports.ContestantList{
		Contestants:      standings,
		TotalVotes:       total,
		TotalContestants: len(standings),
	}, nil
}

func (s *voteService) Status(ctx context.Context, fingerprint string) (*ports.VotingStatus, error) {
	limit := s.policy.DailyLimit()
	if limit == 0 {
		return &ports.VotingStatus{Mode: s.policy.Mode(), Tracked: false}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	dayKey := domain.DayKey(fingerprint, s.now())
	count, err := s.voteRepo.CountByDayKey(ctx, dayKey)
	if err != nil {
		return nil, err
	}
	voted, err := s.voteRepo.ListByDayKey(ctx, dayKey)
	if err != nil {
		return nil, err
	}

	remaining := max(0, limit-count)
	return &ports.VotingStatus{
		Mode:             s.policy.Mode(),
		Tracked:          true,
		DailyVoteCount:   &count,
		RemainingVotes:   &remaining,
		VotedContestants: voted,
	}, nil
}

func (s *voteService) Stats(ctx context.Context) (*domain.VotingStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	total, err := s.voteRepo.CountValid(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.contestantRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.voteRepo.CountValidSince(ctx, s.now().Add(-recentVotesWindow))
	if err != nil {
		return nil, err
	}
	top, err := s.contestantRepo.TopActive(ctx, topContestantsLimit)
	if err != nil {
		return nil, err
	}

	return &domain.VotingStats{
		TotalVotes:        total,
		ActiveContestants: active,
		RecentVotes:       recent,
		TopContestants:    top,
	}, nil
}

// broadcast publishes in the background; failures are logged and never
// change the outcome of the operation that triggered them.
func (s *voteService) broadcast(ctx context.Context, room, event string, payload any) {
	publish(ctx, s.notifier, s.log, room, event, payload)
}

func publish(ctx context.Context, notifier ports.Notifier, log logrus.FieldLogger, room, event string, payload any) {
	if notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), broadcastTimeout)
		defer cancel()
		if err := notifier.Publish(ctx, room, event, payload); err != nil {
			log.WithError(err).WithFields(logrus.Fields{"room": room, "event": event}).Warn("broadcast failed")
		}
	}()
}
