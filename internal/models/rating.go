package models

import (
	"fmt"
	"time"
)

const (
	MinRating = 1
	MaxRating = 10
)

// ValidRating reports whether score is within [MinRating, MaxRating].
func ValidRating(score int) bool {
	return score >= MinRating && score <= MaxRating
}

// Rating is a user's score for one movie. A user has at most one rating per movie.
type Rating struct {
	entity
	userID     string
	movieID    int
	movieTitle string
	score      int
}

// NewRating creates a [Rating] for movie by userID.
func NewRating(sequence int, userID string, movie Movie, score int) *Rating {
	return &Rating{
		entity:     newEntity(sequence),
		userID:     userID,
		movieID:    movie.ID,
		movieTitle: movie.Title,
		score:      score,
	}
}

func (r *Rating) UserID() string     { return r.userID }
func (r *Rating) MovieID() int       { return r.movieID }
func (r *Rating) MovieTitle() string { return r.movieTitle }
func (r *Rating) Score() int         { return r.score }
func (r *Rating) SetScore(score int) { r.score = score }

// Validate checks ownership, the movie reference and the score range.
func (r *Rating) Validate() error {
	if r.id == "" {
		return fmt.Errorf("rating id is required")
	}
	if r.userID == "" {
		return fmt.Errorf("rating user id is required")
	}
	if r.movieID <= 0 {
		return fmt.Errorf("invalid movie id: %d", r.movieID)
	}
	if !ValidRating(r.score) {
		return fmt.Errorf("rating %d out of range %d..%d", r.score, MinRating, MaxRating)
	}
	return nil
}

// RatedMovie joins a rating with the cached movie metadata, for listings and exports.
type RatedMovie struct {
	RatingID string    `json:"rating_id"`
	Movie    Movie     `json:"movie"`
	Rating   int       `json:"rating"`
	RatedAt  time.Time `json:"rated_at"`
}

// RatingEntry is one line of a bulk rating import: a movie named by title (and optional release year) with a score.
type RatingEntry struct {
	Line   int    `json:"line"`
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
	Rating int    `json:"rating"`
}
