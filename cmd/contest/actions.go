package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/robalyx/fotowettbewerb/internal/setup"
	"github.com/robalyx/fotowettbewerb/internal/setup/config"
	"github.com/robalyx/fotowettbewerb/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var (
	ErrIDRequired       = errors.New("ID argument required")
	ErrVoteArgsRequired = errors.New("ID and vote type arguments required")
)

// Defaults for caller-side vote retries when the config leaves them unset.
const (
	DefaultVoteRetries  = 3
	DefaultRetryDelay   = 100 * time.Millisecond
	DefaultRetryMaxWait = 2 * time.Second
)

type appAction func(ctx context.Context, c *cli.Command, app *setup.App) error

// withApp initializes the application for the duration of one command.
func withApp(action appAction) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		app, err := setup.InitializeApp(ctx, telemetry.ServiceContest, ContestLogDir)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer app.Cleanup()

		if err := action(ctx, c, app); err != nil {
			app.Logger.Warn("Command failed", zap.String("command", c.Name), zap.Error(err))
			return err
		}
		return nil
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

// resolveSubmissionID accepts a numeric ID or a public ID like FWB-2025-00001.
func resolveSubmissionID(ctx context.Context, app *setup.App, arg string) (uint64, error) {
	if arg == "" {
		return 0, ErrIDRequired
	}

	if strings.HasPrefix(arg, types.PublicIDPrefix+"-") {
		submission, err := app.DB.Model().Submission().GetByPublicID(ctx, arg)
		if err != nil {
			return 0, err
		}
		return submission.ID, nil
	}

	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid submission ID %q: %w", arg, err)
	}
	return id, nil
}

func submitterFromFlags(c *cli.Command) types.Submitter {
	return types.Submitter{
		UserID:       uint64(c.Int("user-id")),
		VisitorToken: c.String("visitor"),
	}
}

func submitAction(ctx context.Context, c *cli.Command, app *setup.App) error {
	submission, err := app.DB.Service().Intake().CreateSubmission(ctx, submitterFromFlags(c), types.FileRefs{
		FilePath:      c.String("file"),
		ThumbnailPath: c.String("thumbnail"),
	})
	if err != nil {
		return err
	}
	return printJSON(submission)
}

func listAction(ctx context.Context, c *cli.Command, app *setup.App) error {
	status, err := enum.SubmissionStatusString(c.String("status"))
	if err != nil {
		return err
	}

	submissions, err := app.DB.Model().Submission().ListByStatus(ctx, status, int(c.Int("limit")))
	if err != nil {
		return err
	}
	return printJSON(submissions)
}

func reviewAction(approve bool) appAction {
	return func(ctx context.Context, c *cli.Command, app *setup.App) error {
		id, err := resolveSubmissionID(ctx, app, c.Args().First())
		if err != nil {
			return err
		}

		actor := types.Principal{
			ID:   uint64(c.Int("actor-id")),
			Name: c.String("actor-name"),
		}

		review := app.DB.Service().Review()

		var outcome *types.ReviewOutcome
		if approve {
			outcome, err = review.Approve(ctx, id, actor, c.String("source"))
		} else {
			outcome, err = review.Decline(ctx, id, actor, c.String("source"))
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, outcome.Entry.Describe())
		return printJSON(outcome)
	}
}

func historyAction(ctx context.Context, c *cli.Command, app *setup.App) error {
	id, err := resolveSubmissionID(ctx, app, c.Args().First())
	if err != nil {
		return err
	}

	entries, err := app.DB.Service().Audit().ListAuditEntries(ctx, id)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		fmt.Fprintf(os.Stderr, "%s  %s by %s\n",
			entry.CreatedAt.Format(time.RFC3339), entry.Describe(), entry.ActorName)
	}
	return printJSON(entries)
}

func voteAction(ctx context.Context, c *cli.Command, app *setup.App) error {
	if c.Args().Len() != 2 {
		return ErrVoteArgsRequired
	}

	id, err := resolveSubmissionID(ctx, app, c.Args().Get(0))
	if err != nil {
		return err
	}

	voteType, err := types.ParseVoteType(c.Args().Get(1))
	if err != nil {
		return err
	}

	var result *types.VoteResult
	err = backoff.RetryNotify(func() error {
		var err error
		result, err = app.DB.Service().Vote().CastVote(ctx, id, c.String("visitor"), voteType)
		if err != nil && !types.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, voteBackoff(ctx, &app.Config.Common.Retry), func(err error, wait time.Duration) {
		app.Logger.Info("Vote contended, retrying", zap.Error(err), zap.Duration("wait", wait))
	})
	if err != nil {
		return err
	}

	return printJSON(result)
}

// voteBackoff builds the exponential retry policy for contended votes.
func voteBackoff(ctx context.Context, cfg *config.Retry) backoff.BackOff {
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = DefaultVoteRetries
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = DefaultRetryDelay
	b.MaxInterval = DefaultRetryMaxWait
	if cfg.Delay > 0 {
		b.InitialInterval = time.Duration(cfg.Delay) * time.Millisecond
	}
	if cfg.MaxDelay > 0 {
		b.MaxInterval = time.Duration(cfg.MaxDelay) * time.Millisecond
	}

	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

func galleryListAction(ctx context.Context, c *cli.Command, app *setup.App) error {
	page, err := app.DB.Service().Gallery().ListPage(ctx, c.String("cursor"), app.Config.Common.Contest.PageSize)
	if err != nil {
		return err
	}
	return printJSON(page)
}

func galleryShowAction(ctx context.Context, c *cli.Command, app *setup.App) error {
	id, err := resolveSubmissionID(ctx, app, c.Args().First())
	if err != nil {
		return err
	}

	view, err := app.DB.Service().Gallery().ShowPhoto(ctx, id, c.String("visitor"))
	if err != nil {
		return err
	}
	return printJSON(view)
}

func progressAction(ctx context.Context, c *cli.Command, app *setup.App) error {
	progress, err := app.DB.Service().Gallery().ProgressFor(ctx, c.String("visitor"))
	if err != nil {
		return err
	}
	return printJSON(progress)
}

func slotsAction(ctx context.Context, c *cli.Command, app *setup.App) error {
	submitter := submitterFromFlags(c)
	intake := app.DB.Service().Intake()

	active, err := intake.ActiveSubmissionCount(ctx, submitter)
	if err != nil {
		return err
	}

	remaining, err := intake.RemainingSlots(ctx, submitter)
	if err != nil {
		return err
	}

	return printJSON(map[string]int{
		"active":    active,
		"remaining": remaining,
	})
}

func newVisitorAction(_ context.Context, _ *cli.Command) error {
	_, err := fmt.Fprintln(os.Stdout, uuid.New().String())
	return err
}
