package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/flickpick/internal/repositories"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// cacheCommand handles the local TMDB metadata cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and fill the local movie metadata cache",
		Commands: []*cli.Command{
			{
				Name:  "movie",
				Usage: "Fetch a movie from TMDB and cache its metadata",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "TMDB movie id",
						Required: true,
					},
				},
				Action: r.CacheMovie,
			},
			{
				Name:   "stats",
				Usage:  "Show how many movies are cached",
				Action: r.CacheStats,
			},
		},
	}
}

// CacheMovie caches one movie's metadata.
//
// Movies are cached automatically whenever they are rated; this fills the cache ahead of time.
func (r *Runner) CacheMovie(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int("id")
	if err := r.requireCatalog(); err != nil {
		return err
	}
	if err := r.open(); err != nil {
		return err
	}

	r.logger.Infof("caching TMDB movie: %d", id)

	movie, err := r.catalog.GetMovie(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch movie: %w", err)
	}

	if err := repositories.NewMovieCacheAdapter(repositories.NewMovieRepository(r.db)).CacheMovie(*movie); err != nil {
		return err
	}

	return r.writePlain("✓ Cached %s\n", movie.Label())
}

// CacheStats reports the size of the movie cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	count, err := repositories.NewMovieRepository(r.db).Count()
	if err != nil {
		return err
	}

	return r.writePlain("Cached movies: %s\n", humanize.Comma(int64(count)))
}
