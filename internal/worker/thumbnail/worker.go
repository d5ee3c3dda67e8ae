package thumbnail

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/robalyx/fotowettbewerb/internal/queue"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Jobs is the queue the worker consumes.
type Jobs interface {
	Dispatch(ctx context.Context, job *types.ThumbnailJob) error
	Pop(ctx context.Context, batchSize int) ([]*types.ThumbnailJob, error)
	SetStatus(ctx context.Context, submissionID uint64, status string) error
}

// Recorder stores the generated thumbnail path on the submission.
type Recorder interface {
	SetThumbnail(ctx context.Context, id uint64, thumbnailPath string) error
}

// Backlog lists submissions that still lack a thumbnail.
type Backlog interface {
	ListMissingThumbnails(ctx context.Context, limit int) ([]*types.Submission, error)
}

// Reporter receives progress updates.
type Reporter interface {
	UpdateTask(task string)
	StartBatch(total int)
	AddResults(processed, failed int)
	SetHealthy(healthy bool)
}

// Options tunes the worker.
type Options struct {
	BatchSize     int
	Concurrency   int
	MaxEdge       int
	PollInterval  time.Duration
	BackfillLimit int
	OutputDir     string

	// MediaRoot resolves relative photo paths.
	MediaRoot string
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.MaxEdge <= 0 {
		o.MaxEdge = 480
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.BackfillLimit <= 0 {
		o.BackfillLimit = 100
	}
	return o
}

// Worker renders thumbnails for queued submissions.
type Worker struct {
	jobs     Jobs
	recorder Recorder
	backlog  Backlog
	reporter Reporter
	opts     Options
	logger   *zap.Logger
}

// New creates a new thumbnail worker.
func New(
	jobs Jobs, recorder Recorder, backlog Backlog, reporter Reporter, opts Options, logger *zap.Logger,
) *Worker {
	return &Worker{
		jobs:     jobs,
		recorder: recorder,
		backlog:  backlog,
		reporter: reporter,
		opts:     opts.withDefaults(),
		logger:   logger.Named("thumbnail_worker"),
	}
}

// Start backfills missing thumbnails once and then processes the queue until ctx ends.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Thumbnail worker started",
		zap.Int("concurrency", w.opts.Concurrency),
		zap.Int("maxEdge", w.opts.MaxEdge))

	if queued, err := w.Backfill(ctx); err != nil {
		w.logger.Error("Failed to backfill thumbnails", zap.Error(err))
	} else if queued > 0 {
		w.logger.Info("Queued missing thumbnails", zap.Int("count", queued))
	}

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		w.reporter.UpdateTask("Waiting for jobs")

		jobs, err := w.jobs.Pop(ctx, w.opts.BatchSize)
		if err != nil {
			w.logger.Error("Failed to pop thumbnail jobs", zap.Error(err))
			w.reporter.SetHealthy(false)
		} else {
			w.reporter.SetHealthy(true)
		}

		if len(jobs) > 0 {
			processed, failed := w.ProcessBatch(ctx, jobs)
			w.logger.Info("Processed thumbnail batch",
				zap.Int("processed", processed),
				zap.Int("failed", failed))
			continue
		}

		select {
		case <-ctx.Done():
			w.logger.Info("Thumbnail worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// Backfill queues submissions that have a file but no thumbnail.
func (w *Worker) Backfill(ctx context.Context) (int, error) {
	w.reporter.UpdateTask("Backfilling")

	submissions, err := w.backlog.ListMissingThumbnails(ctx, w.opts.BackfillLimit)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	for i, submission := range submissions {
		err := w.jobs.Dispatch(ctx, &types.ThumbnailJob{
			SubmissionID: submission.ID,
			FilePath:     submission.FilePath,
			Reason:       types.ThumbnailReasonBackfill,
			QueuedAt:     now,
		})
		if err != nil {
			return i, err
		}
	}

	return len(submissions), nil
}

// ProcessBatch renders jobs concurrently and reports how many succeeded and failed.
func (w *Worker) ProcessBatch(ctx context.Context, jobs []*types.ThumbnailJob) (int, int) {
	w.reporter.UpdateTask(fmt.Sprintf("Rendering %d thumbnails", len(jobs)))
	w.reporter.StartBatch(len(jobs))

	p := pool.NewWithResults[bool]().WithMaxGoroutines(w.opts.Concurrency)
	for _, job := range jobs {
		p.Go(func() bool {
			if err := w.process(ctx, job); err != nil {
				w.logger.Warn("Failed to generate thumbnail",
					zap.Error(err),
					zap.Uint64("submissionID", job.SubmissionID))
				w.setStatus(ctx, job.SubmissionID, queue.StatusFailed)
				w.reporter.AddResults(0, 1)
				return false
			}
			w.setStatus(ctx, job.SubmissionID, queue.StatusComplete)
			w.reporter.AddResults(1, 0)
			return true
		})
	}

	var processed, failed int
	for _, ok := range p.Wait() {
		if ok {
			processed++
		} else {
			failed++
		}
	}

	return processed, failed
}

// process renders one job and records the result on the submission.
func (w *Worker) process(ctx context.Context, job *types.ThumbnailJob) error {
	if job.FilePath == "" {
		return fmt.Errorf("submission %d has no file", job.SubmissionID)
	}

	srcPath := job.FilePath
	if !filepath.IsAbs(srcPath) && w.opts.MediaRoot != "" {
		srcPath = filepath.Join(w.opts.MediaRoot, srcPath)
	}

	dstPath := ThumbnailPath(w.opts.OutputDir, job.SubmissionID)
	if err := RenderFile(srcPath, dstPath, w.opts.MaxEdge); err != nil {
		return err
	}

	return w.recorder.SetThumbnail(ctx, job.SubmissionID, dstPath)
}

func (w *Worker) setStatus(ctx context.Context, submissionID uint64, status string) {
	if err := w.jobs.SetStatus(ctx, submissionID, status); err != nil {
		w.logger.Warn("Failed to update thumbnail job status",
			zap.Error(err),
			zap.Uint64("submissionID", submissionID))
	}
}

// ThumbnailPath returns where the thumbnail of a submission is stored.
func ThumbnailPath(outputDir string, submissionID uint64) string {
	return filepath.Join(outputDir, fmt.Sprintf("%d.webp", submissionID))
}
