package commands

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// MaintenanceCommands returns commands that inspect contest data.
func MaintenanceCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "missing-thumbnails",
			Usage: "List active submissions that still need a thumbnail",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Value: 100, Usage: "Maximum submissions to list"},
			},
			Action: handleMissingThumbnails(deps),
		},
		{
			Name:      "moderator-history",
			Usage:     "Show the latest review decisions of a moderator",
			ArgsUsage: "ACTOR_ID",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Value: 50, Usage: "Maximum decisions to list"},
			},
			Action: handleModeratorHistory(deps),
		},
	}
}

func handleMissingThumbnails(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		submissions, err := deps.DB.Model().Submission().ListMissingThumbnails(ctx, int(c.Int("limit")))
		if err != nil {
			return err
		}

		for _, s := range submissions {
			deps.Logger.Info("Missing thumbnail",
				zap.Uint64("id", s.ID),
				zap.String("publicID", s.PublicID),
				zap.String("status", s.Status.String()),
				zap.String("filePath", s.FilePath))
		}

		deps.Logger.Info("Found submissions without thumbnails", zap.Int("count", len(submissions)))
		return nil
	}
}

func handleModeratorHistory(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrActorIDRequired
		}

		actorID, err := strconv.ParseUint(c.Args().First(), 10, 64)
		if err != nil {
			return err
		}

		entries, err := deps.DB.Service().Audit().ListByActor(ctx, actorID, int(c.Int("limit")))
		if err != nil {
			return err
		}

		for _, entry := range entries {
			deps.Logger.Info(entry.Describe(),
				zap.Uint64("subjectID", entry.SubjectID),
				zap.String("subjectType", entry.SubjectType.String()),
				zap.Time("at", entry.CreatedAt),
				zap.String("source", entry.SourceAddress))
		}
		return nil
	}
}
