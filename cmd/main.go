package main

import (
	"cmp"
	"context"
	"errors"
	"os"

	"github.com/desertthunder/flickpick/internal/services"
	"github.com/desertthunder/flickpick/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	configPath := cmp.Or(os.Getenv("FLICKPICK_CONFIG"), "config.toml")

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		logger.Fatal("invalid configuration", "path", configPath, "error", err)
	}

	var catalog services.MovieCatalog
	if config.HasTMDBCredentials() {
		if svc, err := services.NewTMDBService(
			config.Credentials.TMDB.Map(), nil,
			services.WithRateLimit(config.Search.RateLimit),
			services.WithLanguage(config.Search.Language),
			services.WithIncludeAdult(config.Search.IncludeAdult),
		); err == nil {
			catalog = svc
		} else {
			logger.Warn("TMDB service unavailable", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    catalog,
		API:        services.NewAPIService(config.Credentials.TMDB.Map(), nil),
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "flickpick",
		Usage:    "Search, rate & export movies from The Movie Database",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err := app.Run(context.Background(), os.Args)
	runner.Close()

	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
