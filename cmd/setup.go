package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"tunebridge/internal/repositories"
	"tunebridge/internal/shared"
)

// Setup creates a config file from the template if missing and initializes
// the run history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file exists", "path", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
		r.writePlain("Created %s - fill in your Spotify and YouTube credentials\n", configPath)
	}

	if config, err := shared.LoadConfig(configPath); err == nil {
		r.config = config
		shared.LoadEnv(r.config)
	} else {
		r.logger.Warn("failed to load config, using defaults", "error", err)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Setup complete\n")
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
