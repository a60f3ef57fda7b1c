package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"tunebridge/internal/services"
	"tunebridge/internal/shared"
)

func main() {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	shared.LoadEnv(config)

	var catalog services.SourceCatalog
	if svc, err := services.NewSpotifyService(ctx, config.Credentials.Spotify); err == nil {
		catalog = svc
	} else {
		logger.Debug("spotify catalog not initialized", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "tunebridge",
		Usage:    "Convert Spotify playlists into YouTube playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
