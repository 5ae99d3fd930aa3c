package main

import (
	"context"
	"errors"
	"os"

	"github.com/iuliopime/bmat/internal/services"
	"github.com/iuliopime/bmat/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Adapters: buildAdapters(config),
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "bmat",
		Usage:    "Collaborative team playlists across Spotify, Apple Music & SoundCloud",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

// buildAdapters constructs one adapter per platform with configured
// credentials. Adapters with blank credentials are still created; their
// requests fail at the platform and the engines treat that as a miss.
func buildAdapters(config *shared.Config) []services.Adapter {
	return []services.Adapter{
		services.NewSpotifyAdapter(config.Credentials.Spotify),
		services.NewAppleAdapter(config.Credentials.Apple),
		services.NewSoundCloudAdapter(config.Credentials.SoundCloud),
		services.NewYouTubeAdapter(config.Credentials.YouTube),
	}
}
