// package tasks implements rating operations on top of the movie catalog and the rating store.
//
// The core abstraction is Rater, which rates single movies, lists a user's ratings and runs bulk imports.
// Long operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/services"
	"github.com/desertthunder/flickpick/internal/shared"
)

// RatingStore persists ratings. Implemented by repositories.RatingRepository.
type RatingStore interface {
	Create(rating *models.Rating) error
	Update(rating *models.Rating) error
	GetByUserMovie(userID string, movieID int) (*models.Rating, error)
	ListByUser(userID string) ([]models.RatedMovie, error)
	Delete(id string) error
}

// MovieCacher stores movie metadata next to the ratings. Implemented by repositories.MovieCacheAdapter.
type MovieCacher interface {
	CacheMovie(movie models.Movie) error
}

// Rater defines the rating operations offered to the CLI and the dashboard.
type Rater interface {
	// Rate records score for movie, replacing the user's previous score if there is one.
	Rate(ctx context.Context, userID string, movie models.Movie, score int) (*models.Rating, bool, error)

	// Ratings lists the user's rated movies, most recently rated first.
	Ratings(ctx context.Context, userID string) ([]models.RatedMovie, error)

	// BulkImport resolves every entry against the catalog and rates the best match.
	BulkImport(ctx context.Context, progress chan<- ProgressUpdate, userID string, entries []models.RatingEntry, opts BulkImportOpts) (*BulkImportResult, error)
}

// RatingEngine implements [Rater].
//
// Rate serializes the lookup and write of a (user, movie) pair so concurrent import workers
// cannot insert the same rating twice.
type RatingEngine struct {
	catalog services.MovieCatalog
	store   RatingStore
	cache   MovieCacher
	logger  *log.Logger
	mu      sync.Mutex
}

var _ Rater = (*RatingEngine)(nil)

// NewRatingEngine creates a RatingEngine. cache and logger may be nil.
func NewRatingEngine(catalog services.MovieCatalog, store RatingStore, cache MovieCacher, logger *log.Logger) *RatingEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RatingEngine{catalog: catalog, store: store, cache: cache, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *RatingEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Rate validates score, caches the movie metadata and creates or updates the user's rating.
// The boolean result reports whether an existing rating was updated.
func (e *RatingEngine) Rate(ctx context.Context, userID string, movie models.Movie, score int) (*models.Rating, bool, error) {
	if e.store == nil {
		return nil, false, fmt.Errorf("%w: rating store not initialized", shared.ErrServiceUnavailable)
	}
	if !models.ValidRating(score) {
		return nil, false, fmt.Errorf("%w: got %d", shared.ErrInvalidRating, score)
	}
	if userID == "" {
		return nil, false, shared.ErrNotAuthenticated
	}
	if movie.ID <= 0 {
		return nil, false, fmt.Errorf("%w: movie id %d", shared.ErrInvalidArgument, movie.ID)
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	// Cached metadata only decorates listings; a failed write never blocks the rating.
	if e.cache != nil {
		if err := e.cache.CacheMovie(movie); err != nil {
			e.logger.Warn("failed to cache movie", "movie", movie.ID, "err", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	existing, err := e.store.GetByUserMovie(userID, movie.ID)
	switch {
	case err == nil:
		existing.SetScore(score)
		if err := e.store.Update(existing); err != nil {
			return nil, false, err
		}
		e.logger.Debug("rating updated", "movie", movie.ID, "rating", score)
		return existing, true, nil
	case !errors.Is(err, shared.ErrRatingNotFound):
		return nil, false, err
	}

	rating := models.NewRating(0, userID, movie, score)
	if err := e.store.Create(rating); err != nil {
		return nil, false, err
	}

	e.logger.Debug("rating created", "movie", movie.ID, "rating", score)
	return rating, false, nil
}

// Ratings returns the rated movies of userID, newest first.
func (e *RatingEngine) Ratings(ctx context.Context, userID string) ([]models.RatedMovie, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: rating store not initialized", shared.ErrServiceUnavailable)
	}
	if userID == "" {
		return nil, shared.ErrNotAuthenticated
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.store.ListByUser(userID)
}

// Remove deletes the user's rating of movieID and returns it. A movie that was never rated yields
// [shared.ErrRatingNotFound].
func (e *RatingEngine) Remove(ctx context.Context, userID string, movieID int) (*models.Rating, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: rating store not initialized", shared.ErrServiceUnavailable)
	}
	if userID == "" {
		return nil, shared.ErrNotAuthenticated
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rating, err := e.store.GetByUserMovie(userID, movieID)
	if err != nil {
		return nil, err
	}
	if err := e.store.Delete(rating.ID()); err != nil {
		return nil, err
	}

	e.logger.Debug("rating removed", "movie", movieID)
	return rating, nil
}
