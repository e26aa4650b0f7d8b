package domain

import "github.com/google/uuid"

// Rooms clients can subscribe to on the real-time channel.
const (
	RoomVoting = "voting-updates"
	RoomBlog   = "blog-updates"
)

const (
	EventVoteUpdate = "voteUpdate"
	EventPostView   = "postView"
	EventPostShare  = "postShare"
	EventNewComment = "newComment"
)

type VoteUpdate struct {
	ContestantID   uuid.UUID `json:"contestantId"`
	NewVoteCount   int64     `json:"newVoteCount"`
	VotePercentage int       `json:"votePercentage"`
	TotalVotes     int64     `json:"totalVotes"`
}

// RosterUpdate is emitted on voteUpdate after an administrative change to contestants.
type RosterUpdate struct {
	Contestants []Contestant `json:"contestants"`
	TotalVotes  int64        `json:"totalVotes"`
}

type PostView struct {
	PostID       uuid.UUID `json:"postId"`
	NewViewCount int64     `json:"newViewCount"`
}

type PostShare struct {
	PostID        uuid.UUID `json:"postId"`
	Platform      string    `json:"platform,omitempty"`
	NewShareCount int64     `json:"newShareCount"`
}

type NewComment struct {
	PostID  uuid.UUID `json:"postId"`
	Comment Comment   `json:"comment"`
}
