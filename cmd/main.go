package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/guessify/internal/services"
	"github.com/desertthunder/guessify/internal/shared"
	"github.com/urfave/cli/v3"
)

const configFile = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := ""
	switch loadedConfig, err := shared.LoadConfig(configFile); {
	case err == nil:
		config = loadedConfig
		configPath = configFile
	case errors.Is(err, shared.ErrMissingConfig):
		logger.Debug("no config file, using defaults", "path", configFile)
	default:
		logger.Warn("failed to load config, using defaults", "error", err)
	}
	shared.SetLogLevel(logger, shared.ParseLevel(config.Log.Level))

	var spotify *services.SpotifyService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			svc.SetRateLimit(config.Game.RequestsPerSecond)
			spotify = svc
		} else {
			logger.Debug("spotify service unavailable", "error", err)
		}
	}

	closeCache := func() {}
	opts := RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	}
	if spotify != nil {
		opts.Spotify = spotify
		opts.Tokens = spotify
	}

	if spotify != nil && config.Cache.Enabled {
		cached, closeDB, err := withTrackCache(spotify, config.Database, logger)
		if err != nil {
			logger.Warn("track cache disabled", "error", err)
		} else {
			opts.Spotify = cached
			closeCache = func() {
				if err := closeDB(); err != nil {
					logger.Warn("failed to close track cache", "error", err)
				}
			}
		}
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "guessify",
		Usage:    "Guess the song from your Spotify playlists, then challenge a friend",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	err := app.Run(context.Background(), os.Args)
	closeCache()
	if err != nil {
		exit(logger, err)
	}
}

func exit(logger *log.Logger, err error) {
	switch {
	case errors.Is(err, shared.ErrNotImplemented):
		logger.Warn("not implemented")
		os.Exit(0)
	case errors.Is(err, shared.ErrTokenExpired), errors.Is(err, shared.ErrNotAuthenticated):
		logger.Error("spotify authorization required", "hint", "set access_token/refresh_token in "+configFile)
		os.Exit(1)
	default:
		logger.Fatalf("application error: %v", err)
	}
}
