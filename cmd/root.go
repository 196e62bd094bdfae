package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "propfeed",
		Usage: "A syndication feed generator for property listings",
		Description: `A feed generator that turns property listings into the
		documents marketplace partners ingest: an ILS style XML property feed
		and an MHVillage style JSON feed for manufactured homes.

		Listings are kept in an SQLite database, filled either by importing a
		JSON file or by syncing from an upstream listings API. Feeds are
		served over HTTP per partner.

		Flags can generally be set via environment variables, e.g.:

		--database => PROPFEED_DATABASE=listings.db
		--port => PROPFEED_PORT=3000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			generateCmd(),
			syncCmd(),
			importCmd(),
			migrateCmd(),
			rollbackCmd(),
			tidyCmd(),
			partnerCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
