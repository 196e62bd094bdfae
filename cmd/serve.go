package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"propfeed/config"
	"propfeed/db"
	"propfeed/feeds"
	"propfeed/server"
	"propfeed/source"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the syndication feeds",
		Description: `Starts the feed HTTP server.

Serves the partner feed endpoint backed by the SQLite listing database,
plus health, dashboard and metrics endpoints.`,
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
				Name:    "hostname",
				Aliases: []string{"n"},
				Usage:   "The hostname where the server is running",
				EnvVars: []string{"PROPFEED_HOSTNAME"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   3000,
				Usage:   "Port to listen on",
				EnvVars: []string{"PROPFEED_PORT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			partners, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				// The server still works without partner overrides
				log.WithFields(log.Fields{
					"error": err,
				}).Warn("Could not load partner config, continuing without it")
				partners = nil
			}

			reader := db.NewReader(ctx.String("database"))

			app := server.Server(&server.ServerConfig{
				Hostname: ctx.String("hostname"),
				Source:   &source.DBSource{Reader: reader},
				Reader:   reader,
				Registry: feeds.InitializeRegistry(partners),
				Partners: partners,
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			go func() {
				<-c
				fmt.Println("Gracefully shutting down...")
				app.ShutdownWithTimeout(60 * time.Second)
			}()

			fmt.Println("Starting server...")
			return app.Listen(fmt.Sprintf(":%d", ctx.Int("port")))
		},
	}
}
