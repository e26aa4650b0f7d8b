package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DailyVoteLimit is the number of votes one fingerprint may cast per UTC day in quota mode.
const DailyVoteLimit = 3

type VoteSource string

const (
	SourceWebsite VoteSource = "website"
	SourceMobile  VoteSource = "mobile"
	SourceAPI     VoteSource = "api"
)

// ParseSource maps the optional client platform to a vote source, defaulting to website.
func ParseSource(platform string) VoteSource {
	switch VoteSource(strings.ToLower(strings.TrimSpace(platform))) {
	case SourceMobile:
		return SourceMobile
	case SourceAPI:
		return SourceAPI
	default:
		return SourceWebsite
	}
}

type Vote struct {
	ID           uuid.UUID  `json:"id"`
	ContestantID uuid.UUID  `json:"contestantId"`
	VoterIP      string     `json:"-"`
	DayKey       string     `json:"-"`
	GuardKey     string     `json:"-"`
	VoteDate     time.Time  `json:"voteDate"`
	UserAgent    string     `json:"-"`
	Source       VoteSource `json:"source"`
	IsValid      bool       `json:"isValid"`
}

// DayKey collapses a fingerprint and the UTC calendar day of t into the quota accounting unit.
func DayKey(fingerprint string, t time.Time) string {
	return t.UTC().Format("2006-01-02") + "-" + fingerprint
}

type VotedContestant struct {
	ContestantID   uuid.UUID `json:"contestantId"`
	ContestantName string    `json:"contestantName"`
	VoteTime       time.Time `json:"voteTime"`
}

type TopContestant struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Votes int64     `json:"votes"`
}

type VotingStats struct {
	TotalVotes        int64           `json:"totalVotes"`
	ActiveContestants int64           `json:"activeContestants"`
	RecentVotes       int64           `json:"recentVotes"`
	TopContestants    []TopContestant `json:"topContestants"`
}

type DailySummary struct {
	Day           string    `json:"day"`
	ContestantID  uuid.UUID `json:"contestantId"`
	VoteCount     int64     `json:"voteCount"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
