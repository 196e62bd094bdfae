package cmd

import (
	"errors"
	"fmt"
	"os"

	"propfeed/config"
	"propfeed/feeds"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"
)

func partnerCmd() *cli.Command {
	return &cli.Command{
		Name:  "partner",
		Usage: "Add a partner to the configuration",
		Description: `Interactively adds a partner entry to the TOML
configuration file.

Asks for the partner id, display name, feed format and an optional lead
email override, then writes the configuration back.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/partners.toml",
				Usage:   "Path to partner configuration file",
				EnvVars: []string{"PROPFEED_CONFIG"},
			},
		},
		Action: func(ctx *cli.Context) error {
			path := ctx.String("config")

			cfg, err := config.LoadConfig(path)
			if err != nil {
				if !os.IsNotExist(errors.Unwrap(err)) {
					return err
				}
				cfg = &config.TomlConfig{}
			}

			id, err := prompt.New().Ask("Partner ID:").Input("mhvillage")
			if err != nil {
				return err
			}
			if id == "" {
				return errors.New("partner id is required")
			}
			if _, ok := cfg.Partner(id); ok {
				return fmt.Errorf("partner %s already exists in %s", id, path)
			}

			name, err := prompt.New().Ask("Display name:").Input("")
			if err != nil {
				return err
			}

			format, err := prompt.New().Ask("Feed format:").Choose([]string{
				feeds.ZillowXML.Name,
				feeds.MHVillageJSON.Name,
			})
			if err != nil {
				return err
			}

			leadEmail, err := prompt.New().Ask("Lead email (optional):").Input("")
			if err != nil {
				return err
			}

			cfg.Partners = append(cfg.Partners, config.TomlPartner{
				ID:        id,
				Name:      name,
				Format:    format,
				LeadEmail: leadEmail,
			})

			if err := cfg.Save(path); err != nil {
				return err
			}

			fmt.Println("Added partner...", id)
			return nil
		},
	}
}
