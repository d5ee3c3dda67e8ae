package types

import (
	"fmt"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Subject is an entity whose review decisions are recorded in the audit trail.
// The set of implementations is closed; Submission is currently the only one.
type Subject interface {
	AuditSubjectType() enum.AuditSubjectType
	AuditSubjectID() uint64
	auditSubject()
}

// Principal identifies the moderator performing a review.
type Principal struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ChangeSnapshot captures the subject's review state immediately before a decision.
type ChangeSnapshot struct {
	From               enum.SubmissionStatus `json:"from"`
	To                 enum.SubmissionStatus `json:"to"`
	PreviousReviewer   string                `json:"previousReviewer,omitempty"`
	PreviousReviewerID uint64                `json:"previousReviewerId,omitempty"`
	PreviousReviewedAt *time.Time            `json:"previousReviewedAt,omitempty"`
}

// NewChangeSnapshot records the state of submission before it moves to the target status.
func NewChangeSnapshot(submission *Submission, to enum.SubmissionStatus) ChangeSnapshot {
	snapshot := ChangeSnapshot{
		From:               submission.Status,
		To:                 to,
		PreviousReviewer:   submission.ReviewerName,
		PreviousReviewerID: submission.ReviewerID,
	}
	if !submission.ReviewedAt.IsZero() {
		reviewedAt := submission.ReviewedAt
		snapshot.PreviousReviewedAt = &reviewedAt
	}
	return snapshot
}

// AuditEntry is an immutable record of one review decision.
type AuditEntry struct {
	bun.BaseModel `bun:"table:audit_entries,alias:audit_entry"`

	ID             uint64                `bun:",pk,autoincrement"  json:"id"`
	SubjectType    enum.AuditSubjectType `bun:"type:text,notnull"  json:"subjectType"`
	SubjectID      uint64                `bun:",notnull"           json:"subjectId"`
	ActionType     enum.AuditActionType  `bun:"type:text,notnull"  json:"actionType"`
	ActorID        uint64                `bun:",notnull"           json:"actorId"`
	ActorName      string                `bun:",notnull"           json:"actorName"`
	ChangeSnapshot ChangeSnapshot        `bun:"type:jsonb,notnull" json:"changeSnapshot"`
	SourceAddress  string                `bun:",nullzero"          json:"sourceAddress,omitempty"`
	CreatedAt      time.Time             `bun:",notnull"           json:"createdAt"`
}

// IsApproval reports whether the entry records an approval.
func (e *AuditEntry) IsApproval() bool {
	return e.ActionType == enum.AuditActionApproved
}

// IsDecline reports whether the entry records a decline.
func (e *AuditEntry) IsDecline() bool {
	return e.ActionType == enum.AuditActionDeclined
}

// Describe returns a human-readable summary of the status change.
func (e *AuditEntry) Describe() string {
	return fmt.Sprintf("Changed from %s to %s", e.ChangeSnapshot.From, e.ChangeSnapshot.To)
}
