package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
)

// MovieRepository caches TMDB movie metadata keyed by TMDB id.
//
// Ratings only store the movie id and title, so listings and exports join against this cache for
// release dates and posters.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create inserts movie into the cache.
func (r *MovieRepository) Create(movie models.Movie) error {
	if movie.ID <= 0 || movie.Title == "" {
		return fmt.Errorf("%w: movie requires an id and title", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO movies (id, title, release_date, poster_path, overview, cached_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, movie.ID, movie.Title, movie.ReleaseDate, movie.PosterPath, movie.Overview, time.Now()); err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// Upsert inserts movie or refreshes the cached copy.
func (r *MovieRepository) Upsert(movie models.Movie) error {
	if movie.ID <= 0 || movie.Title == "" {
		return fmt.Errorf("%w: movie requires an id and title", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO movies (id, title, release_date, poster_path, overview, cached_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			release_date = excluded.release_date,
			poster_path = excluded.poster_path,
			overview = excluded.overview,
			cached_at = excluded.cached_at
	`

	if _, err := r.db.Exec(query, movie.ID, movie.Title, movie.ReleaseDate, movie.PosterPath, movie.Overview, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert movie: %w", err)
	}
	return nil
}

// Get retrieves a cached movie. A cache miss yields [shared.ErrMovieNotFound].
func (r *MovieRepository) Get(id int) (*models.Movie, error) {
	query := `
		SELECT id, title, release_date, poster_path, overview
		FROM movies
		WHERE id = ?
	`

	var m models.Movie
	err := r.db.QueryRow(query, id).Scan(&m.ID, &m.Title, &m.ReleaseDate, &m.PosterPath, &m.Overview)
	if isNoRows(err) {
		return nil, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query movie: %w", err)
	}

	return &m, nil
}

// Count returns the number of cached movies.
func (r *MovieRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM movies").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return n, nil
}
