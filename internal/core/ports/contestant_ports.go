package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
)

type ContestantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contestant, error)
	// ListActive returns active contestants ordered by votes, highest first.
	ListActive(ctx context.Context) ([]domain.Contestant, error)
	ListAll(ctx context.Context) ([]domain.Contestant, error)
	TopActive(ctx context.Context, limit int) ([]domain.TopContestant, error)
	CountActive(ctx context.Context) (int64, error)
	Create(ctx context.Context, contestant *domain.Contestant) error
	Update(ctx context.Context, contestant *domain.Contestant) error
	Delete(ctx context.Context, id uuid.UUID) error
	DecrementVotes(ctx context.Context, id uuid.UUID) (*domain.Contestant, error)
}

type ContestantInput struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Season      string             `json:"season"`
	IsActive    *bool              `json:"isActive"`
	SocialLinks domain.SocialLinks `json:"socialLinks"`
}

type ContestantService interface {
	List(ctx context.Context) ([]domain.Contestant, error)
	Create(ctx context.Context, input ContestantInput) (*domain.Contestant, error)
	Update(ctx context.Context, id string, input ContestantInput) (*domain.Contestant, error)
	Delete(ctx context.Context, id string) error
	DecrementVotes(ctx context.Context, id string) (*domain.Contestant, error)
}
