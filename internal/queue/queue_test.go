package queue_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/robalyx/fotowettbewerb/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*queue.Manager, *miniredis.Miniredis, func()) {
	t.Helper()
	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	manager := queue.NewManager(client, zap.NewNop())

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return manager, mr, cleanup
}

func newJob(id uint64, queuedAt time.Time) *types.ThumbnailJob {
	return &types.ThumbnailJob{
		SubmissionID: id,
		FilePath:     "/media/photo.jpg",
		Reason:       types.ThumbnailReasonIntake,
		QueuedAt:     queuedAt,
	}
}

func TestDispatch(t *testing.T) {
	t.Parallel()
	manager, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	require.NoError(t, manager.Dispatch(ctx, newJob(1, time.Now())))

	length, err := manager.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, length)

	status, err := manager.GetStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, queue.StatusPending, status)
}

func TestDispatchSameSubmissionKeepsOneJob(t *testing.T) {
	t.Parallel()
	manager, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	now := time.Now()
	require.NoError(t, manager.Dispatch(ctx, newJob(7, now)))

	again := newJob(7, now.Add(time.Second))
	again.Reason = types.ThumbnailReasonApproval
	require.NoError(t, manager.Dispatch(ctx, again))

	length, err := manager.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, length)

	jobs, err := manager.Pop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, types.ThumbnailReasonApproval, jobs[0].Reason)
}

func TestPopReturnsOldestFirst(t *testing.T) {
	t.Parallel()
	manager, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	base := time.Now()
	require.NoError(t, manager.Dispatch(ctx, newJob(3, base.Add(2*time.Second))))
	require.NoError(t, manager.Dispatch(ctx, newJob(1, base)))
	require.NoError(t, manager.Dispatch(ctx, newJob(2, base.Add(time.Second))))

	jobs, err := manager.Pop(ctx, 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, uint64(1), jobs[0].SubmissionID)
	assert.Equal(t, uint64(2), jobs[1].SubmissionID)
	assert.Equal(t, "/media/photo.jpg", jobs[0].FilePath)

	status, err := manager.GetStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, queue.StatusProcessing, status)

	length, err := manager.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, length)
}

func TestPopEmptyQueue(t *testing.T) {
	t.Parallel()
	manager, _, cleanup := setupTest(t)
	defer cleanup()

	jobs, err := manager.Pop(t.Context(), 5)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestPopInvalidBatch(t *testing.T) {
	t.Parallel()
	manager, _, cleanup := setupTest(t)
	defer cleanup()

	_, err := manager.Pop(t.Context(), 0)
	require.ErrorIs(t, err, queue.ErrEmptyBatch)
}

func TestStatus(t *testing.T) {
	t.Parallel()
	manager, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()

	status, err := manager.GetStatus(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, status)

	require.NoError(t, manager.SetStatus(ctx, 42, queue.StatusComplete))

	status, err = manager.GetStatus(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, queue.StatusComplete, status)
}

func TestPopRemovesPayloads(t *testing.T) {
	t.Parallel()
	manager, mr, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	require.NoError(t, manager.Dispatch(ctx, newJob(5, time.Now())))

	jobs, err := manager.Pop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.False(t, mr.Exists(queue.PayloadKey))
	assert.False(t, mr.Exists(queue.PendingKey))

	// A job queued again after its claim is delivered with its own payload
	again := newJob(5, time.Now())
	again.Reason = types.ThumbnailReasonApproval
	require.NoError(t, manager.Dispatch(ctx, again))

	jobs, err = manager.Pop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, uint64(5), jobs[0].SubmissionID)
	assert.Equal(t, types.ThumbnailReasonApproval, jobs[0].Reason)
}

func TestPopSkipsMembersWithoutPayload(t *testing.T) {
	t.Parallel()
	manager, mr, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	base := time.Now()
	_, err := mr.ZAdd(queue.PendingKey, float64(base.Add(-time.Minute).UnixMilli()), "99")
	require.NoError(t, err)
	require.NoError(t, manager.Dispatch(ctx, newJob(1, base)))

	jobs, err := manager.Pop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, uint64(1), jobs[0].SubmissionID)

	length, err := manager.Length(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)
}
