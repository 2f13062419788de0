package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
)

const ratingColumns = "id, sequence, user_id, movie_id, movie_title, rating, created_at, updated_at, deleted_at"

// RatingRepository stores ratings in the user_movies table.
//
// A user has at most one live rating per movie; the (user_id, movie_id) pair is unique.
type RatingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a new RatingRepository with the given database connection
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts a new [models.Rating] with generated ID and sequence.
//
// A previously soft-deleted rating of the same movie is purged first so the user can rate it again.
func (r *RatingRepository) Create(rating *models.Rating) error {
	rating.SetID(shared.GenerateID())
	if err := rating.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidRating, err)
	}

	if _, err := r.db.Exec(
		"DELETE FROM user_movies WHERE user_id = ? AND movie_id = ? AND deleted_at IS NOT NULL",
		rating.UserID(), rating.MovieID(),
	); err != nil {
		return fmt.Errorf("failed to purge deleted rating: %w", err)
	}

	sequence, err := NextSequence(r.db, "user_movies")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	rating.SetSequence(sequence)

	query := `
		INSERT INTO user_movies (id, sequence, user_id, movie_id, movie_title, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		rating.ID(),
		sequence,
		rating.UserID(),
		rating.MovieID(),
		rating.MovieTitle(),
		rating.Score(),
		rating.CreatedAt(),
		rating.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}

	return nil
}

// GetByUserMovie retrieves the live rating of movieID by userID
func (r *RatingRepository) GetByUserMovie(userID string, movieID int) (*models.Rating, error) {
	query := "SELECT " + ratingColumns + " FROM user_movies WHERE user_id = ? AND movie_id = ? AND deleted_at IS NULL"

	rating, err := scanRating(r.db.QueryRow(query, userID, movieID))
	if isNoRows(err) {
		return nil, fmt.Errorf("%w: movie %d", shared.ErrRatingNotFound, movieID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rating: %w", err)
	}

	return rating, nil
}

// Update changes the score of an existing rating
func (r *RatingRepository) Update(rating *models.Rating) error {
	if err := rating.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidRating, err)
	}

	now := time.Now()
	rating.SetUpdatedAt(now)

	query := `
		UPDATE user_movies
		SET rating = ?, movie_title = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, rating.Score(), rating.MovieTitle(), now, rating.ID())
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}

	return affected(result, fmt.Errorf("%w: %s", shared.ErrRatingNotFound, rating.ID()))
}

// Delete soft-deletes a rating by ID
func (r *RatingRepository) Delete(id string) error {
	result, err := r.db.Exec("UPDATE user_movies SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	return affected(result, fmt.Errorf("%w: %s", shared.ErrRatingNotFound, id))
}

// ListByUser returns the live ratings of userID joined with cached movie metadata, most recently
// rated first. Movies missing from the cache fall back to the title stored on the rating.
func (r *RatingRepository) ListByUser(userID string) ([]models.RatedMovie, error) {
	query := `
		SELECT um.id, um.movie_id, COALESCE(m.title, um.movie_title), COALESCE(m.release_date, ''),
			COALESCE(m.poster_path, ''), COALESCE(m.overview, ''), um.rating, um.updated_at
		FROM user_movies um
		LEFT JOIN movies m ON m.id = um.movie_id
		WHERE um.user_id = ? AND um.deleted_at IS NULL
		ORDER BY um.updated_at DESC, um.sequence DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rated movies: %w", err)
	}
	defer rows.Close()

	var rated []models.RatedMovie
	for rows.Next() {
		var rm models.RatedMovie
		err := rows.Scan(
			&rm.RatingID,
			&rm.Movie.ID,
			&rm.Movie.Title,
			&rm.Movie.ReleaseDate,
			&rm.Movie.PosterPath,
			&rm.Movie.Overview,
			&rm.Rating,
			&rm.RatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rated movie: %w", err)
		}
		rated = append(rated, rm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return rated, nil
}

func scanRating(s scanner) (*models.Rating, error) {
	var (
		id         string
		sequence   int
		userID     string
		movieID    int
		movieTitle string
		score      int
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	if err := s.Scan(&id, &sequence, &userID, &movieID, &movieTitle, &score, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	rating := models.NewRating(sequence, userID, models.Movie{ID: movieID, Title: movieTitle}, score)
	rating.SetID(id)
	rating.SetCreatedAt(createdAt)
	rating.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		rating.SetDeletedAt(&deletedAt.Time)
	}

	return rating, nil
}
