package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// VoteType is the direction of a visitor's vote.
type VoteType bool

const (
	// VoteUp raises the submission's rate.
	VoteUp VoteType = true
	// VoteDown lowers the submission's rate.
	VoteDown VoteType = false
)

// String returns "up" or "down".
func (v VoteType) String() string {
	if v == VoteUp {
		return "up"
	}
	return "down"
}

// ParseVoteType converts the API representation ("up" or "down") to a VoteType.
func ParseVoteType(s string) (VoteType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return VoteUp, nil
	case "down":
		return VoteDown, nil
	default:
		return VoteDown, fmt.Errorf("%w: %q", ErrInvalidVoteType, s)
	}
}

// Vote records one visitor's vote on one submission.
// The (SubmissionID, VisitorToken) pair is unique.
type Vote struct {
	bun.BaseModel `bun:"table:votes,alias:vote"`

	SubmissionID uint64    `bun:",pk"      json:"submissionId"`
	VisitorToken string    `bun:",pk"      json:"-"`
	VoteType     VoteType  `bun:",notnull" json:"voteType"`
	CreatedAt    time.Time `bun:",notnull" json:"createdAt"`
	UpdatedAt    time.Time `bun:",notnull" json:"updatedAt"`
}

// VoteDelta returns the change in rate caused by casting next given the visitor's previous vote.
// A nil previous means the visitor has not voted on the submission yet.
func VoteDelta(previous *VoteType, next VoteType) int64 {
	if previous == nil {
		if next == VoteUp {
			return 1
		}
		return -1
	}

	switch {
	case *previous == next:
		return 0
	case next == VoteUp:
		return 2
	default:
		return -2
	}
}

// ApplyVoteDelta adds delta to rate with a floor of zero.
func ApplyVoteDelta(rate, delta int64) int64 {
	return max(rate+delta, 0)
}

// VoteResult describes the outcome of a cast vote.
type VoteResult struct {
	SubmissionID uint64   `json:"submissionId"`
	VoteType     VoteType `json:"voteType"`
	Rate         int64    `json:"rate"`
	Changed      bool     `json:"changed"`
}
