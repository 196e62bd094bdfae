package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"propfeed/db"
	"propfeed/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import listings from a JSON file",
		ArgsUsage: "<listings.json>",
		Description: `Imports a JSON array of listing records into the SQLite
database. Existing listings with the same id are replaced.

Records without an id get one assigned.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "listings.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"PROPFEED_DATABASE"},
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return errors.New("expected exactly one listings file argument")
			}

			data, err := os.ReadFile(ctx.Args().First())
			if err != nil {
				return fmt.Errorf("could not read listings file: %w", err)
			}

			var listings []models.Listing
			if err := json.Unmarshal(data, &listings); err != nil {
				return fmt.Errorf("could not parse listings file: %w", err)
			}

			writer, err := db.NewWriter(ctx.String("database"))
			if err != nil {
				return err
			}
			defer writer.Close()

			for i := range listings {
				if listings[i].ID == "" {
					listings[i].ID = uuid.NewString()
				}
				if err := writer.UpsertListing(ctx.Context, listings[i]); err != nil {
					return fmt.Errorf("could not import listing %s: %w", listings[i].ID, err)
				}
			}

			log.WithFields(log.Fields{
				"count": len(listings),
			}).Info("Imported listings")

			return nil
		},
	}
}
