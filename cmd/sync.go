package cmd

import (
	"fmt"
	"time"

	"propfeed/db"
	"propfeed/source"
	"propfeed/upstream"

	"github.com/urfave/cli/v2"
)

func syncCmd() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync listings from the upstream listings API",
		Description: `Periodically pulls the active listings from the upstream
listings API into the SQLite database.

Runs until interrupted. Fetch failures are retried with exponential
backoff; a successful pass resets the retry cycle.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "listings.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"PROPFEED_DATABASE"},
			},
			&cli.StringFlag{
				Name:     "upstream",
				Aliases:  []string{"u"},
				Usage:    "Base URL of the upstream listings API",
				EnvVars:  []string{"PROPFEED_UPSTREAM"},
				Required: true,
			},
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Value:   15 * time.Minute,
				Usage:   "How often to pull listings",
				EnvVars: []string{"PROPFEED_SYNC_INTERVAL"},
			},
		},
		Action: func(ctx *cli.Context) error {
			writer, err := db.NewWriter(ctx.String("database"))
			if err != nil {
				return err
			}
			defer writer.Close()

			client := upstream.NewClient(ctx.String("upstream"))

			fmt.Println("Syncing from", ctx.String("upstream"))
			return source.Sync(ctx.Context, client, writer, ctx.Duration("interval"))
		},
	}
}
