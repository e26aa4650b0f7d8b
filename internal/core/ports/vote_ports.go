package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
)

type VoteRepository interface {
	HasVoted(ctx context.Context, dayKey string, contestantID uuid.UUID) (bool, error)
	CountByDayKey(ctx context.Context, dayKey string) (int, error)
	ListByDayKey(ctx context.Context, dayKey string) ([]domain.VotedContestant, error)
	// Record inserts the vote and increments the contestant's counter in a
	// single transaction. A positive dailyLimit re-checks the day key's vote
	// count under a store-level lock before inserting.
	Record(ctx context.Context, vote *domain.Vote, dailyLimit int) (*RecordedVote, error)
	CountValid(ctx context.Context) (int64, error)
	CountValidSince(ctx context.Context, since time.Time) (int64, error)
}

// RecordedVote is what the recording transaction saw when it committed.
type RecordedVote struct {
	Contestant domain.Contestant
	// DailyCount includes the new vote. It is counted under the day key lock
	// and is zero when the policy does not cap votes.
	DailyCount int
	// ActiveTotal is the sum of active contestants' counters after the increment.
	ActiveTotal int64
}

type VoteInput struct {
	ContestantID string
	Platform     string
	Fingerprint  string
	UserAgent    string
}

type VoteResult struct {
	Contestant     domain.ContestantStanding `json:"contestant"`
	RemainingVotes *int                      `json:"remainingVotes"`
	TotalVotes     int64                     `json:"totalVotes"`
}

type ContestantList struct {
	Contestants      []domain.ContestantStanding `json:"data"`
	TotalVotes       int64                       `json:"totalVotes"`
	TotalContestants int                         `json:"totalContestants"`
}

type VotingStatus struct {
	Mode             string                   `json:"mode"`
	Tracked          bool                     `json:"tracked"`
	DailyVoteCount   *int                     `json:"dailyVoteCount,omitempty"`
	RemainingVotes   *int                     `json:"remainingVotes,omitempty"`
	VotedContestants []domain.VotedContestant `json:"votedContestants,omitempty"`
}

type VoteService interface {
	Vote(ctx context.Context, input VoteInput) (*VoteResult, error)
	Contestants(ctx context.Context) (*ContestantList, error)
	Status(ctx context.Context, fingerprint string) (*VotingStatus, error)
	Stats(ctx context.Context) (*domain.VotingStats, error)
}
