package cmd

import (
	"fmt"
	"os"

	"propfeed/config"
	"propfeed/db"
	"propfeed/feeds"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Write a feed document to stdout",
		Description: `Generates a single feed document for a partner without
running the server.

Useful for debugging a partner feed or producing a document to upload
out of band. The body goes to stdout, all log output goes to stderr, so
the result can be piped straight to a file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "listings.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"PROPFEED_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/partners.toml",
				Usage:   "Path to partner configuration file",
				EnvVars: []string{"PROPFEED_CONFIG"},
			},
			&cli.StringFlag{
				Name:     "partner",
				Usage:    "Partner id to generate the feed for",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Format token, e.g. JSON for the manufactured home feed",
			},
			&cli.StringFlag{
				Name:  "listing-types",
				Usage: "Comma separated listing/property types to include",
			},
			&cli.StringFlag{
				Name:  "lead-email",
				Usage: "Override the contact email written to the feed",
			},
		},
		Action: func(ctx *cli.Context) error {
			// Keep stdout clean for the feed body
			log.SetOutput(os.Stderr)

			partners, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				log.WithFields(log.Fields{
					"error": err,
				}).Warn("Could not load partner config, continuing without it")
				partners = nil
			}

			registry := feeds.InitializeRegistry(partners)

			req := feeds.Request{
				PartnerID: ctx.String("partner"),
				LeadEmail: ctx.String("lead-email"),
				Types:     feeds.ParseTypes(ctx.String("listing-types")),
			}

			format := ctx.String("format")
			formatter := registry.Resolve(format)
			if partners != nil {
				if p, ok := partners.Partner(req.PartnerID); ok {
					if req.LeadEmail == "" {
						req.LeadEmail = p.LeadEmail
					}
					if len(req.Types) == 0 {
						req.Types = p.ListingTypes
					}
					if format == "" && p.Format != "" {
						formatter = registry.Named(p.Format)
					}
				}
			}

			reader := db.NewReader(ctx.String("database"))
			listings, err := reader.GetActiveListings(req.Types)
			if err != nil {
				return fmt.Errorf("could not fetch listings: %w", err)
			}

			body, err := formatter.Render(feeds.FilterListings(listings, req.Types), req)
			if err != nil {
				return fmt.Errorf("could not render feed: %w", err)
			}

			fmt.Println(body)
			return nil
		},
	}
}
