package database_test

import (
	"context"
	"testing"

	"github.com/robalyx/fotowettbewerb/internal/database/service"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewSequence(t *testing.T) {
	client := setupTestClient(t, service.Options{})
	ctx := context.Background()
	review := client.Service().Review()

	submission := createSubmission(t, client, 5, true)

	alice := types.Principal{ID: 10, Name: "alice"}
	bob := types.Principal{ID: 11, Name: "bob"}

	approved, err := review.Approve(ctx, submission.ID, alice, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, enum.SubmissionStatusApproved, approved.Submission.Status)
	assert.True(t, approved.Entry.IsApproval())

	declined, err := review.Decline(ctx, submission.ID, bob, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, enum.SubmissionStatusDeclined, declined.Submission.Status)
	assert.True(t, declined.Entry.IsDecline())

	stored := reload(t, client, submission.ID)
	assert.Equal(t, enum.SubmissionStatusDeclined, stored.Status)
	assert.Equal(t, "bob", stored.ReviewerName)
	assert.Equal(t, uint64(11), stored.ReviewerID)
	assert.False(t, stored.ReviewedAt.IsZero())

	entries, err := client.Service().Audit().ListAuditEntries(ctx, submission.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first, second := entries[0], entries[1]
	assert.Equal(t, enum.SubmissionStatusNew, first.ChangeSnapshot.From)
	assert.Equal(t, enum.SubmissionStatusApproved, first.ChangeSnapshot.To)
	assert.Empty(t, first.ChangeSnapshot.PreviousReviewer)
	assert.Nil(t, first.ChangeSnapshot.PreviousReviewedAt)
	assert.Equal(t, "10.0.0.1", first.SourceAddress)
	assert.Equal(t, "Changed from new to approved", first.Describe())

	assert.Equal(t, enum.SubmissionStatusApproved, second.ChangeSnapshot.From)
	assert.Equal(t, enum.SubmissionStatusDeclined, second.ChangeSnapshot.To)
	assert.Equal(t, "alice", second.ChangeSnapshot.PreviousReviewer)
	assert.Equal(t, uint64(10), second.ChangeSnapshot.PreviousReviewerID)
	assert.NotNil(t, second.ChangeSnapshot.PreviousReviewedAt)
	assert.Equal(t, "bob", second.ActorName)
	assert.Equal(t, enum.AuditSubjectSubmission, second.SubjectType)
	assert.Equal(t, submission.ID, second.SubjectID)

	byActor, err := client.Service().Audit().ListByActor(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, byActor, 1)
	assert.Equal(t, first.ID, byActor[0].ID)
}

func TestReviewAlwaysAppends(t *testing.T) {
	client := setupTestClient(t, service.Options{})
	ctx := context.Background()
	review := client.Service().Review()

	submission := createSubmission(t, client, 5, true)

	// Repeating a decision is allowed and still recorded
	steps := []bool{true, true, false, false, true}
	previous := enum.SubmissionStatusNew
	for i, approve := range steps {
		var outcome *types.ReviewOutcome
		var err error
		if approve {
			outcome, err = review.Approve(ctx, submission.ID, moderator, "")
		} else {
			outcome, err = review.Decline(ctx, submission.ID, moderator, "")
		}
		require.NoError(t, err)

		assert.Equal(t, previous, outcome.Entry.ChangeSnapshot.From)
		assert.Equal(t, outcome.Submission.Status, outcome.Entry.ChangeSnapshot.To)
		previous = outcome.Submission.Status

		entries, err := client.Service().Audit().ListAuditEntries(ctx, submission.ID)
		require.NoError(t, err)
		assert.Len(t, entries, i+1)
	}
}

func TestReviewRollsBackWhenAuditFails(t *testing.T) {
	client := setupTestClient(t, service.Options{})
	ctx := context.Background()

	submission := createSubmission(t, client, 5, true)

	_, err := client.DB().ExecContext(ctx,
		"ALTER TABLE audit_entries ADD CONSTRAINT chk_test_actor CHECK (actor_name <> 'rejected')")
	require.NoError(t, err)

	_, err = client.Service().Review().Approve(ctx, submission.ID, types.Principal{ID: 2, Name: "rejected"}, "")
	require.ErrorIs(t, err, types.ErrConstraintViolation)

	stored := reload(t, client, submission.ID)
	assert.Equal(t, enum.SubmissionStatusNew, stored.Status)
	assert.Empty(t, stored.ReviewerName)
	assert.True(t, stored.ReviewedAt.IsZero())

	entries, err := client.Service().Audit().ListAuditEntries(ctx, submission.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReviewMissingSubmission(t *testing.T) {
	client := setupTestClient(t, service.Options{})
	ctx := context.Background()

	_, err := client.Service().Review().Approve(ctx, 424242, moderator, "")
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = client.Service().Audit().ListAuditEntries(ctx, 424242)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestApproveDispatchesMissingThumbnail(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	client := setupTestClient(t, service.Options{Dispatcher: dispatcher})
	ctx := context.Background()

	withThumb := createSubmission(t, client, 5, true)
	withoutThumb := createSubmission(t, client, 6, false)

	// Intake queues the photo that arrived without a thumbnail
	jobs := dispatcher.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, withoutThumb.ID, jobs[0].SubmissionID)
	assert.Equal(t, types.ThumbnailReasonIntake, jobs[0].Reason)

	_, err := client.Service().Review().Approve(ctx, withThumb.ID, moderator, "")
	require.NoError(t, err)
	assert.Len(t, dispatcher.Jobs(), 1)

	_, err = client.Service().Review().Approve(ctx, withoutThumb.ID, moderator, "")
	require.NoError(t, err)

	jobs = dispatcher.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, withoutThumb.ID, jobs[1].SubmissionID)
	assert.Equal(t, types.ThumbnailReasonApproval, jobs[1].Reason)
	assert.Equal(t, "photos/original.jpg", jobs[1].FilePath)

	// The callback makes the photo visible
	require.NoError(t, client.Service().Intake().SetThumbnail(ctx, withoutThumb.ID, "thumbnails/2.webp"))
	assert.True(t, reload(t, client, withoutThumb.ID).IsVisible())

	missing, err := client.Model().Submission().ListMissingThumbnails(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
