package thumbnail_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/robalyx/fotowettbewerb/internal/queue"
	"github.com/robalyx/fotowettbewerb/internal/worker/thumbnail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRecorder struct {
	mu     sync.Mutex
	thumbs map[uint64]string
}

func (r *fakeRecorder) SetThumbnail(_ context.Context, id uint64, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.thumbs == nil {
		r.thumbs = make(map[uint64]string)
	}
	r.thumbs[id] = path
	return nil
}

type fakeBacklog struct {
	submissions []*types.Submission
}

func (b *fakeBacklog) ListMissingThumbnails(_ context.Context, limit int) ([]*types.Submission, error) {
	return b.submissions[:min(limit, len(b.submissions))], nil
}

type nopReporter struct{}

func (nopReporter) UpdateTask(string)   {}
func (nopReporter) StartBatch(int)      {}
func (nopReporter) AddResults(int, int) {}
func (nopReporter) SetHealthy(bool)     {}

func setupQueue(t *testing.T) (*queue.Manager, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	return queue.NewManager(client, zap.NewNop()), func() {
		client.Close()
		mr.Close()
	}
}

func TestProcessBatch(t *testing.T) {
	t.Parallel()
	jobs, cleanup := setupQueue(t)
	defer cleanup()

	ctx := t.Context()
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(src, encodePNG(t, 40, 40), 0o600))

	recorder := &fakeRecorder{}
	worker := thumbnail.New(jobs, recorder, &fakeBacklog{}, nopReporter{}, thumbnail.Options{
		Concurrency: 2,
		MaxEdge:     10,
		OutputDir:   filepath.Join(dir, "thumbs"),
	}, zap.NewNop())

	batch := []*types.ThumbnailJob{
		{SubmissionID: 1, FilePath: src},
		{SubmissionID: 2, FilePath: src},
		{SubmissionID: 3, FilePath: filepath.Join(dir, "missing.png")},
		{SubmissionID: 4},
	}

	processed, failed := worker.ProcessBatch(ctx, batch)
	assert.Equal(t, 2, processed)
	assert.Equal(t, 2, failed)

	assert.Equal(t, thumbnail.ThumbnailPath(filepath.Join(dir, "thumbs"), 1), recorder.thumbs[1])
	assert.FileExists(t, recorder.thumbs[2])
	assert.NotContains(t, recorder.thumbs, uint64(3))

	status, err := jobs.GetStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, queue.StatusComplete, status)

	status, err = jobs.GetStatus(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, queue.StatusFailed, status)
}

func TestBackfillQueuesMissingThumbnails(t *testing.T) {
	t.Parallel()
	jobs, cleanup := setupQueue(t)
	defer cleanup()

	ctx := t.Context()
	backlog := &fakeBacklog{submissions: []*types.Submission{
		{ID: 10, FilePath: "/media/a.jpg"},
		{ID: 11, FilePath: "/media/b.jpg"},
		{ID: 12, FilePath: "/media/c.jpg"},
	}}

	worker := thumbnail.New(jobs, &fakeRecorder{}, backlog, nopReporter{}, thumbnail.Options{
		BackfillLimit: 2,
	}, zap.NewNop())

	queued, err := worker.Backfill(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, queued)

	popped, err := jobs.Pop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, popped, 2)
	for _, job := range popped {
		assert.Equal(t, types.ThumbnailReasonBackfill, job.Reason)
	}
}
