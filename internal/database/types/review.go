package types

import "time"

// ReviewOutcome is the result of one approve or decline call.
type ReviewOutcome struct {
	Submission *Submission `json:"submission"`
	Entry      *AuditEntry `json:"entry"`
}

// ThumbnailJob asks the image-processing collaborator to produce a thumbnail.
type ThumbnailJob struct {
	SubmissionID uint64    `json:"submissionId"`
	FilePath     string    `json:"filePath"`
	Reason       string    `json:"reason"`
	QueuedAt     time.Time `json:"queuedAt"`
}

// Reasons a thumbnail job is queued.
const (
	ThumbnailReasonIntake   = "intake"
	ThumbnailReasonApproval = "approval"
	ThumbnailReasonBackfill = "backfill"
)
