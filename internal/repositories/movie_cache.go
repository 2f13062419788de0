package repositories

import (
	"errors"
	"fmt"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
)

// MovieCacheAdapter implements tasks.MovieCacher using [MovieRepository].
//
// Movies already in the cache are skipped; a concurrent insert of the same id (UNIQUE
// constraint violation) is treated as success.
type MovieCacheAdapter struct {
	repo *MovieRepository
}

// NewMovieCacheAdapter creates a new MovieCacheAdapter with the given repository
func NewMovieCacheAdapter(repo *MovieRepository) *MovieCacheAdapter {
	return &MovieCacheAdapter{repo: repo}
}

// CacheMovie stores movie unless it is already cached.
func (a *MovieCacheAdapter) CacheMovie(movie models.Movie) error {
	existing, err := a.repo.Get(movie.ID)
	if err == nil && existing != nil {
		return nil
	}
	if err != nil && !errors.Is(err, shared.ErrMovieNotFound) {
		return fmt.Errorf("failed to check movie cache: %w", err)
	}

	if err := a.repo.Create(movie); err != nil {
		if shared.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to cache movie: %w", err)
	}

	return nil
}

// CachedMovie returns the cached metadata of id.
func (a *MovieCacheAdapter) CachedMovie(id int) (*models.Movie, error) {
	return a.repo.Get(id)
}
