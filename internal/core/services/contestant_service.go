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
	maxContestantName        = 100
	maxContestantDescription = 500
	defaultSeason            = "current"
)

type contestantService struct {
	repo     ports.ContestantRepository
	notifier ports.Notifier
	log      logrus.FieldLogger
}

func NewContestantService(repo ports.ContestantRepository, notifier ports.Notifier, log logrus.FieldLogger) ports.ContestantService {
	return &contestantService{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

func (s *contestantService) List(ctx context.Context) ([]domain.Contestant, error) {
	return s.repo.ListAll(ctx)
}

func (s *contestantService) Create(ctx context.Context, input ports.ContestantInput) (*domain.Contestant, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	image := strings.TrimSpace(input.Image)
	if name == "" || description == "" || image == "" {
		return nil, domain.Invalid("Name, description, and image are required")
	}
	if err := validateContestantText(name, description); err != nil {
		return nil, err
	}

	now := time.Now()
	contestant := &domain.Contestant{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Image:       image,
		IsActive:    true,
		Season:      defaultSeason,
		EntryDate:   now,
		SocialLinks: input.SocialLinks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Season != "" {
		contestant.Season = input.Season
	}
	if input.IsActive != nil {
		contestant.IsActive = *input.IsActive
	}

	if err := s.repo.Create(ctx, contestant); err != nil {
		return nil, err
	}

	s.broadcastRoster(ctx)
	return contestant, nil
}

func (s *contestantService) Update(ctx context.Context, id string, input ports.ContestantInput) (*domain.Contestant, error) {
	contestantID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.Invalid("Contestant ID is invalid")
	}

	contestant, err := s.repo.GetByID(ctx, contestantID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.Name); v != "" {
		contestant.Name = v
	}
	if v := strings.TrimSpace(input.Description); v != "" {
		contestant.Description = v
	}
	if v := strings.TrimSpace(input.Image); v != "" {
		contestant.Image = v
	}
	if input.Season != "" {
		contestant.Season = input.Season
	}
	if input.IsActive != nil {
		if contestant.IsActive && !*input.IsActive {
			eliminated := time.Now()
			contestant.EliminationDate = &eliminated
		}
		contestant.IsActive = *input.IsActive
	}
	if input.SocialLinks != (domain.SocialLinks{}) {
		contestant.SocialLinks = input.SocialLinks
	}
	if err := validateContestantText(contestant.Name, contestant.Description); err != nil {
		return nil, err
	}
	contestant.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, contestant); err != nil {
		return nil, err
	}

	s.broadcastRoster(ctx)
	return contestant, nil
}

func (s *contestantService) Delete(ctx context.Context, id string) error {
	contestantID, err := uuid.Parse(id)
	if err != nil {
		return domain.Invalid("Contestant ID is invalid")
	}
	if err := s.repo.Delete(ctx, contestantID); err != nil {
		return err
	}

	s.broadcastRoster(ctx)
	return nil
}

// DecrementVotes removes one vote from a contestant without going below zero.
func (s *contestantService) DecrementVotes(ctx context.Context, id string) (*domain.Contestant, error) {
	contestantID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.Invalid("Contestant ID is invalid")
	}
	contestant, err := s.repo.DecrementVotes(ctx, contestantID)
	if err != nil {
		return nil, err
	}

	s.broadcastRoster(ctx)
	return contestant, nil
}

func (s *contestantService) broadcastRoster(ctx context.Context) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to load contestants for roster update")
		return
	}
	publish(ctx, s.notifier, s.log, domain.RoomVoting, domain.EventVoteUpdate, domain.RosterUpdate{
		Contestants: all,
		TotalVotes:  domain.TotalVotes(all),
	})
}

func validateContestantText(name, description string) error {
	if len([]rune(name)) > maxContestantName {
		return domain.Invalid("Name must be at most 100 characters")
	}
	if len([]rune(description)) > maxContestantDescription {
		return domain.Invalid("Description must be at most 500 characters")
	}
	return nil
}
