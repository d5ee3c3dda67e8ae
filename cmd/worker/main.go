package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/progress"
	"github.com/robalyx/fotowettbewerb/internal/setup"
	"github.com/robalyx/fotowettbewerb/internal/setup/telemetry"
	"github.com/robalyx/fotowettbewerb/internal/worker/core"
	"github.com/robalyx/fotowettbewerb/internal/worker/thumbnail"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"

	// ThumbnailWorker renders gallery thumbnails for queued submissions.
	ThumbnailWorker = "thumbnail"

	// RestartDelay is how long a crashed worker waits before starting again.
	RestartDelay = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "worker",
		Usage: "Start the contest background workers",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   1,
				Usage:   "Number of workers to start",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  ThumbnailWorker,
				Usage: "Start thumbnail workers",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runWorkers(ctx, ThumbnailWorker, c.Int("workers"))
				},
			},
		},
	}

	return app.Run(ctx, os.Args)
}

// runWorkers starts multiple instances of a worker type.
func runWorkers(ctx context.Context, workerType string, count int64) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceWorker, WorkerLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup()

	if delay := app.Config.Worker.StartupDelay; delay > 0 {
		app.Logger.Info("Delaying worker startup", zap.Int("ms", delay))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(delay) * time.Millisecond):
		}
	}

	thumbCfg := app.Config.Worker.Thumbnail
	opts := thumbnail.Options{
		BatchSize:     thumbCfg.BatchSize,
		Concurrency:   thumbCfg.Concurrency,
		MaxEdge:       thumbCfg.MaxEdge,
		PollInterval:  time.Duration(thumbCfg.PollInterval) * time.Millisecond,
		BackfillLimit: thumbCfg.BackfillLimit,
		OutputDir:     filepath.Join(app.Config.Common.Contest.MediaRoot, "thumbnails"),
		MediaRoot:     app.Config.Common.Contest.MediaRoot,
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	// Initialize progress bars
	bars := make([]*progress.Bar, count)
	for i := range count {
		bars[i] = progress.NewBar(fmt.Sprintf("Worker %d", i), 25)
	}

	renderCtx, stopRender := context.WithCancel(ctx)
	defer stopRender()
	go progress.NewRenderer(bars, os.Stdout).Render(renderCtx)

	var wg sync.WaitGroup
	for i := range count {
		wg.Add(1)
		go func(workerID int64) {
			defer wg.Done()

			workerLogger := app.LogManager.GetWorkerLogger(
				fmt.Sprintf("%s_worker_%d", workerType, workerID),
			)

			status := core.NewStatusReporter(app.StatusClient, workerType, workerLogger)
			status.Start(ctx)
			defer status.Stop()

			reporter := &barReporter{StatusReporter: status, bar: bars[workerID]}

			w := thumbnail.New(
				app.Queue,
				app.DB.Service().Intake(),
				app.DB.Model().Submission(),
				reporter,
				opts,
				workerLogger,
			)

			runWorker(ctx, w, workerLogger)
		}(i)
	}

	log.Printf("Started %d %s workers", count, workerType)
	wg.Wait()
	stopRender()
	log.Println("All workers have finished. Exiting.")
	return nil
}

// runWorker runs a single worker in a loop with error recovery.
func runWorker(ctx context.Context, w interface{ Start(ctx context.Context) }, logger *zap.Logger) {
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Worker execution failed",
						zap.String("worker_type", fmt.Sprintf("%T", w)),
						zap.Any("panic", r),
					)
				}
			}()

			logger.Info("Starting worker")
			w.Start(ctx)
		}()

		if ctx.Err() != nil {
			logger.Info("Context cancelled, stopping worker")
			return
		}

		logger.Warn("Worker stopped unexpectedly, restarting",
			zap.String("worker_type", fmt.Sprintf("%T", w)),
			zap.Duration("delay", RestartDelay),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(RestartDelay):
		}
	}
}

// barReporter mirrors worker progress to Redis and to the worker's terminal bar.
type barReporter struct {
	*core.StatusReporter
	bar *progress.Bar
}

func (r *barReporter) UpdateTask(task string) {
	r.StatusReporter.UpdateTask(task)
	r.bar.SetStep(task)
}

func (r *barReporter) StartBatch(total int) {
	r.StatusReporter.StartBatch(total)
	r.bar.StartBatch(total)
}

func (r *barReporter) AddResults(processed, failed int) {
	r.StatusReporter.AddResults(processed, failed)
	r.bar.Record(processed, failed)
}

func (r *barReporter) SetHealthy(healthy bool) {
	r.StatusReporter.SetHealthy(healthy)
	r.bar.SetHealthy(healthy)
}
