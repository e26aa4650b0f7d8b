package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
}

type Contestant struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Image           string      `json:"image"`
	Votes           int64       `json:"votes"`
	IsActive        bool        `json:"isActive"`
	Season          string      `json:"season"`
	EliminationDate *time.Time  `json:"eliminationDate,omitempty"`
	EntryDate       time.Time   `json:"entryDate"`
	SocialLinks     SocialLinks `json:"socialLinks"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// ContestantStanding is a contestant with its share of the active vote total.
// The percentage is never persisted.
type ContestantStanding struct {
	Contestant
	VotePercentage int `json:"votePercentage"`
}

// VotePercentage rounds votes/total to the nearest whole percent, 0 when total is 0.
func VotePercentage(votes, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}

// TotalVotes sums the counters of the given contestants.
func TotalVotes(contestants []Contestant) int64 {
	var total int64
	for _, c := range contestants {
		total += c.Votes
	}
	return total
}

// Standings computes percentages against the sum of the given contestants,
// which callers pass as the currently active set.
func Standings(contestants []Contestant) ([]ContestantStanding, int64) {
	total := TotalVotes(contestants)
	standings := make([]ContestantStanding, 0, len(contestants))
	for _, c := range contestants {
		standings = append(standings, ContestantStanding{
			Contestant:     c,
			VotePercentage: VotePercentage(c.Votes, total),
		})
	}
	return standings, total
}
