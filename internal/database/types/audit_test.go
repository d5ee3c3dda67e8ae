package types

import (
	"testing"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("unreviewed submission", func(t *testing.T) {
		t.Parallel()

		snapshot := NewChangeSnapshot(&Submission{Status: enum.SubmissionStatusNew}, enum.SubmissionStatusApproved)
		assert.Equal(t, enum.SubmissionStatusNew, snapshot.From)
		assert.Equal(t, enum.SubmissionStatusApproved, snapshot.To)
		assert.Empty(t, snapshot.PreviousReviewer)
		assert.Zero(t, snapshot.PreviousReviewerID)
		assert.Nil(t, snapshot.PreviousReviewedAt)
	})

	t.Run("previously reviewed submission", func(t *testing.T) {
		t.Parallel()

		reviewedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		submission := &Submission{
			Status:       enum.SubmissionStatusApproved,
			ReviewedAt:   reviewedAt,
			ReviewerID:   4,
			ReviewerName: "alice",
		}

		snapshot := NewChangeSnapshot(submission, enum.SubmissionStatusDeclined)
		assert.Equal(t, enum.SubmissionStatusApproved, snapshot.From)
		assert.Equal(t, enum.SubmissionStatusDeclined, snapshot.To)
		assert.Equal(t, "alice", snapshot.PreviousReviewer)
		assert.Equal(t, uint64(4), snapshot.PreviousReviewerID)
		require.NotNil(t, snapshot.PreviousReviewedAt)
		assert.True(t, reviewedAt.Equal(*snapshot.PreviousReviewedAt))

		// The snapshot must not alias the submission's field.
		submission.ReviewedAt = time.Time{}
		assert.True(t, reviewedAt.Equal(*snapshot.PreviousReviewedAt))
	})
}

func TestAuditEntryPredicates(t *testing.T) {
	t.Parallel()

	approval := &AuditEntry{
		ActionType: enum.AuditActionApproved,
		ChangeSnapshot: ChangeSnapshot{
			From: enum.SubmissionStatusNew,
			To:   enum.SubmissionStatusApproved,
		},
	}
	assert.True(t, approval.IsApproval())
	assert.False(t, approval.IsDecline())
	assert.Equal(t, "Changed from new to approved", approval.Describe())

	decline := &AuditEntry{
		ActionType: enum.AuditActionDeclined,
		ChangeSnapshot: ChangeSnapshot{
			From: enum.SubmissionStatusApproved,
			To:   enum.SubmissionStatusDeclined,
		},
	}
	assert.False(t, decline.IsApproval())
	assert.True(t, decline.IsDecline())
	assert.Equal(t, "Changed from approved to declined", decline.Describe())
}

func TestAuditActionTargetStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, enum.SubmissionStatusApproved, enum.AuditActionApproved.TargetStatus())
	assert.Equal(t, enum.SubmissionStatusDeclined, enum.AuditActionDeclined.TargetStatus())
}
