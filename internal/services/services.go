// package services defines interface MovieSearcher for interacting with movie catalog HTTP APIs
//
// The Movie Database (TMDB)
package services

import (
	"context"

	"github.com/desertthunder/flickpick/internal/models"
)

// MovieSearcher is a free-text movie search provider.
//
// Implementations return results in provider order; an empty slice with a nil error means the search completed with no matches.
type MovieSearcher interface {
	// SearchMovies runs one search for query.
	SearchMovies(ctx context.Context, query string) ([]models.Movie, error)

	// Name returns the name of the provider (e.g., "TMDB")
	Name() string
}

// MovieCatalog extends [MovieSearcher] with lookups used by the CLI and bulk import.
type MovieCatalog interface {
	MovieSearcher

	// SearchBestMatch returns the first result for title, narrowed by release year when year > 0.
	SearchBestMatch(ctx context.Context, title string, year int) (*models.Movie, error)

	// GetMovie fetches a movie by provider id.
	GetMovie(ctx context.Context, id int) (*models.Movie, error)

	// MovieURL returns the public web page of a movie.
	MovieURL(id int) string
}
