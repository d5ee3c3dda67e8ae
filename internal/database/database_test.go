package database_test

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database"
	"github.com/robalyx/fotowettbewerb/internal/database/service"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap/zaptest"
)

var moderator = types.Principal{ID: 1, Name: "moderator"}

// recordingDispatcher collects thumbnail jobs instead of queueing them.
type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []*types.ThumbnailJob
}

func (d *recordingDispatcher) Dispatch(_ context.Context, job *types.ThumbnailJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	return nil
}

func (d *recordingDispatcher) Jobs() []*types.ThumbnailJob {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*types.ThumbnailJob(nil), d.jobs...)
}

// setupTestClient starts a PostgreSQL container, applies migrations and returns a client.
func setupTestClient(t *testing.T, opts service.Options) database.Client {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Skipping integration test: TEST_INTEGRATION is not set")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("fotowettbewerb_test"),
		postgres.WithUsername("fotowettbewerb"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn))), pgdialect.New())

	client, err := database.NewClient(ctx, db, opts, zaptest.NewLogger(t), true)
	require.NoError(t, err, "failed to create client")
	t.Cleanup(func() { _ = client.Close() })

	return client
}

// createSubmission enters a photo for a registered user.
func createSubmission(t *testing.T, client database.Client, userID uint64, withThumbnail bool) *types.Submission {
	t.Helper()

	files := types.FileRefs{FilePath: "photos/original.jpg"}
	if withThumbnail {
		files.ThumbnailPath = "thumbnails/original.webp"
	}

	submission, err := client.Service().Intake().CreateSubmission(
		context.Background(), types.Submitter{UserID: userID}, files,
	)
	require.NoError(t, err)
	return submission
}

// createVisible enters and approves a photo so it appears in the gallery.
func createVisible(t *testing.T, client database.Client) *types.Submission {
	t.Helper()

	ctx := context.Background()
	submission := createSubmission(t, client, 100, true)

	_, err := client.Service().Review().Approve(ctx, submission.ID, moderator, "")
	require.NoError(t, err)

	stored, err := client.Model().Submission().GetByID(ctx, submission.ID)
	require.NoError(t, err)
	return stored
}

// setRate overwrites the stored rate of a submission.
func setRate(t *testing.T, client database.Client, id uint64, rate int64) {
	t.Helper()

	_, err := client.DB().NewUpdate().
		Model((*types.Submission)(nil)).
		Set("rate = ?", rate).
		Where("id = ?", id).
		Exec(context.Background())
	require.NoError(t, err)
}

// setSubmittedAt overwrites the gallery position of a submission.
func setSubmittedAt(t *testing.T, client database.Client, id uint64, at time.Time) {
	t.Helper()

	_, err := client.DB().NewUpdate().
		Model((*types.Submission)(nil)).
		Set("submitted_at = ?", at).
		Where("id = ?", id).
		Exec(context.Background())
	require.NoError(t, err)
}

func reload(t *testing.T, client database.Client, id uint64) *types.Submission {
	t.Helper()

	submission, err := client.Model().Submission().GetByID(context.Background(), id)
	require.NoError(t, err)
	return submission
}
