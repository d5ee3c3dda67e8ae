package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// ContestLogDir specifies where CLI log files are stored.
const ContestLogDir = "logs/contest_logs"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	visitorFlag := &cli.StringFlag{
		Name:  "visitor",
		Usage: "Visitor token identifying the anonymous voter",
	}

	app := &cli.Command{
		Name:  "contest",
		Usage: "Photo contest operator tool",
		Commands: []*cli.Command{
			{
				Name:  "submit",
				Usage: "Enter a photo into the contest",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "user-id", Usage: "Registered submitter ID"},
					&cli.StringFlag{Name: "visitor", Usage: "Visitor token of an anonymous submitter"},
					&cli.StringFlag{Name: "file", Usage: "Path of the stored photo", Required: true},
					&cli.StringFlag{Name: "thumbnail", Usage: "Path of an existing thumbnail"},
				},
				Action: withApp(submitAction),
			},
			{
				Name:  "list",
				Usage: "List submissions by status in review order",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Value: "new", Usage: "new, approved or declined"},
					&cli.IntFlag{Name: "limit", Value: 50, Usage: "Maximum submissions to list"},
				},
				Action: withApp(listAction),
			},
			{
				Name:      "approve",
				Usage:     "Approve a submission",
				ArgsUsage: "ID",
				Flags:     reviewFlags(),
				Action:    withApp(reviewAction(true)),
			},
			{
				Name:      "decline",
				Usage:     "Decline a submission",
				ArgsUsage: "ID",
				Flags:     reviewFlags(),
				Action:    withApp(reviewAction(false)),
			},
			{
				Name:      "history",
				Usage:     "Show the review history of a submission",
				ArgsUsage: "ID",
				Action:    withApp(historyAction),
			},
			{
				Name:      "vote",
				Usage:     "Cast a vote on an approved submission",
				ArgsUsage: "ID up|down",
				Flags:     []cli.Flag{visitorFlag},
				Action:    withApp(voteAction),
			},
			{
				Name:  "gallery",
				Usage: "Browse the public gallery",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List one gallery page",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "cursor", Usage: "Cursor returned by the previous page"},
						},
						Action: withApp(galleryListAction),
					},
					{
						Name:      "show",
						Usage:     "Show a photo with its navigation targets",
						ArgsUsage: "ID",
						Flags:     []cli.Flag{visitorFlag},
						Action:    withApp(galleryShowAction),
					},
				},
			},
			{
				Name:   "progress",
				Usage:  "Show how many gallery photos a visitor has rated",
				Flags:  []cli.Flag{visitorFlag},
				Action: withApp(progressAction),
			},
			{
				Name:  "slots",
				Usage: "Show the active submissions and free slots of a submitter",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "user-id", Usage: "Registered submitter ID"},
					&cli.StringFlag{Name: "visitor", Usage: "Visitor token of an anonymous submitter"},
				},
				Action: withApp(slotsAction),
			},
			{
				Name:  "visitor",
				Usage: "Manage visitor tokens",
				Commands: []*cli.Command{
					{
						Name:   "new",
						Usage:  "Issue a new visitor token",
						Action: newVisitorAction,
					},
				},
			},
		},
	}

	return app.Run(ctx, os.Args)
}

func reviewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "actor-id", Usage: "Moderator ID", Required: true},
		&cli.StringFlag{Name: "actor-name", Usage: "Moderator display name", Required: true},
		&cli.StringFlag{Name: "source", Usage: "Source address recorded in the audit trail"},
	}
}
