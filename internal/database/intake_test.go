package database_test

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/models"
	"github.com/robalyx/fotowettbewerb/internal/database/service"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestCreateSubmissionSequentialIDs(t *testing.T) {
	client := setupTestClient(t, service.Options{})
	year := time.Now().Year()
	pattern := regexp.MustCompile(fmt.Sprintf(`^FWB-%d-\d{5}$`, year))

	for i := 1; i <= 12; i++ {
		submission := createSubmission(t, client, uint64(i), true)

		assert.Regexp(t, pattern, submission.PublicID)
		assert.Equal(t, types.FormatPublicID(year, i), submission.PublicID)
		assert.Equal(t, enum.SubmissionStatusNew, submission.Status)
		assert.Equal(t, int64(0), submission.Rate)
		assert.False(t, submission.SubmittedAt.IsZero())
	}

	found, err := client.Model().Submission().GetByPublicID(context.Background(), types.FormatPublicID(year, 7))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), found.SubmitterUserID)
}

func TestCreateSubmissionConcurrentIDs(t *testing.T) {
	client := setupTestClient(t, service.Options{LockTimeout: 10 * time.Second})
	ctx := context.Background()
	year := time.Now().Year()

	const submissions = 20

	p := pool.NewWithResults[string]().WithErrors().WithMaxGoroutines(8)
	for i := range submissions {
		p.Go(func() (string, error) {
			submission, err := client.Service().Intake().CreateSubmission(ctx,
				types.Submitter{VisitorToken: fmt.Sprintf("visitor-%d", i)},
				types.FileRefs{FilePath: "photos/original.jpg", ThumbnailPath: "thumbnails/original.webp"},
			)
			if err != nil {
				return "", err
			}
			return submission.PublicID, nil
		})
	}

	ids, err := p.Wait()
	require.NoError(t, err)
	require.Len(t, ids, submissions)

	sort.Strings(ids)
	for i, id := range ids {
		assert.Equal(t, types.FormatPublicID(year, i+1), id)
	}
}

func TestAllocateContinuesAfterHighestCounter(t *testing.T) {
	client := setupTestClient(t, service.Options{})
	ctx := context.Background()

	// Counters compare numerically even when rows arrive out of order
	for _, publicID := range []string{"FWB-2031-00042", "FWB-2031-00007"} {
		_, err := client.DB().NewInsert().Model(&types.Submission{
			PublicID:        publicID,
			SubmitterUserID: 1,
			Status:          enum.SubmissionStatusNew,
		}).Exec(ctx)
		require.NoError(t, err)
	}

	publicID, err := client.Service().Identifier().Allocate(ctx, 2031,
		func(ctx context.Context, tx bun.Tx, publicID string) error {
			return client.Model().Submission().CreateWithTx(ctx, tx, &types.Submission{
				PublicID:        publicID,
				SubmitterUserID: 1,
				Status:          enum.SubmissionStatusNew,
			})
		})
	require.NoError(t, err)
	assert.Equal(t, "FWB-2031-00043", publicID)

	// Other years keep their own sequence
	publicID, err = client.Service().Identifier().Allocate(ctx, 2032,
		func(context.Context, bun.Tx, string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, "FWB-2032-00001", publicID)
}

func TestCreateSubmissionSequenceExhausted(t *testing.T) {
	client := setupTestClient(t, service.Options{})
	ctx := context.Background()
	year := time.Now().Year()

	_, err := client.DB().NewInsert().Model(&types.Submission{
		PublicID:        types.FormatPublicID(year, types.MaxPublicIDCounter),
		SubmitterUserID: 1,
		Status:          enum.SubmissionStatusNew,
	}).Exec(ctx)
	require.NoError(t, err)

	_, err = client.Service().Intake().CreateSubmission(ctx, types.Submitter{UserID: 2}, types.FileRefs{})
	require.ErrorIs(t, err, types.ErrSequenceExhausted)
}

func TestCreateSubmissionYearLockTimeout(t *testing.T) {
	client := setupTestClient(t, service.Options{LockTimeout: 200 * time.Millisecond})
	ctx := context.Background()

	tx, err := client.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })

	require.NoError(t, models.LockKey(ctx, tx, types.PublicIDYearPrefix(time.Now().Year())))

	_, err = client.Service().Intake().CreateSubmission(ctx, types.Submitter{UserID: 1}, types.FileRefs{})
	require.ErrorIs(t, err, types.ErrContentionTimeout)

	require.NoError(t, tx.Rollback())

	submission, err := client.Service().Intake().CreateSubmission(ctx, types.Submitter{UserID: 1}, types.FileRefs{})
	require.NoError(t, err)
	assert.Equal(t, types.FormatPublicID(time.Now().Year(), 1), submission.PublicID)
}

func TestCreateSubmissionInvalidSubmitter(t *testing.T) {
	client := setupTestClient(t, service.Options{})
	ctx := context.Background()
	intake := client.Service().Intake()

	_, err := intake.CreateSubmission(ctx, types.Submitter{}, types.FileRefs{})
	require.ErrorIs(t, err, types.ErrInvalidSubmitter)

	_, err = intake.CreateSubmission(ctx, types.Submitter{UserID: 1, VisitorToken: "token"}, types.FileRefs{})
	require.ErrorIs(t, err, types.ErrInvalidSubmitter)

	// The database enforces the same rule
	_, err = client.DB().NewInsert().Model(&types.Submission{
		PublicID: "FWB-2031-00001",
		Status:   enum.SubmissionStatusNew,
	}).Exec(ctx)
	require.Error(t, err)
}

func TestSlotLimit(t *testing.T) {
	client := setupTestClient(t, service.Options{MaxActiveSubmissions: 2})
	ctx := context.Background()
	intake := client.Service().Intake()

	submitter := types.Submitter{VisitorToken: "visitor-a"}
	files := types.FileRefs{FilePath: "photos/original.jpg", ThumbnailPath: "thumbnails/original.webp"}

	remaining, err := intake.RemainingSlots(ctx, submitter)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	first, err := intake.CreateSubmission(ctx, submitter, files)
	require.NoError(t, err)
	_, err = intake.CreateSubmission(ctx, submitter, files)
	require.NoError(t, err)

	_, err = intake.CreateSubmission(ctx, submitter, files)
	require.ErrorIs(t, err, types.ErrSlotLimitReached)

	// Other submitters are unaffected
	_, err = intake.CreateSubmission(ctx, types.Submitter{UserID: 9}, files)
	require.NoError(t, err)

	active, err := intake.ActiveSubmissionCount(ctx, submitter)
	require.NoError(t, err)
	assert.Equal(t, 2, active)

	// A declined submission frees its slot
	_, err = client.Service().Review().Decline(ctx, first.ID, moderator, "")
	require.NoError(t, err)

	remaining, err = intake.RemainingSlots(ctx, submitter)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	_, err = intake.CreateSubmission(ctx, submitter, files)
	require.NoError(t, err)

	mine, err := intake.ListBySubmitter(ctx, submitter)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestRemainingSlotsUnlimited(t *testing.T) {
	client := setupTestClient(t, service.Options{})

	remaining, err := client.Service().Intake().RemainingSlots(context.Background(), types.Submitter{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, -1, remaining)
}

func TestSetThumbnailMissing(t *testing.T) {
	client := setupTestClient(t, service.Options{})

	err := client.Service().Intake().SetThumbnail(context.Background(), 31337, "thumbnails/x.webp")
	require.ErrorIs(t, err, types.ErrNotFound)
}
