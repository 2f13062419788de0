package moviesearch

import "github.com/desertthunder/flickpick/internal/models"

// SelectedMsg is emitted by the default [SelectFunc] when the user picks a movie.
type SelectedMsg struct {
	Movie models.Movie
}

// debounceMsg fires when the input has been quiet for the debounce interval.
// Only the tick carrying the latest id may start a search.
type debounceMsg struct {
	id    int
	query string
}

// resultsMsg carries the outcome of one search request.
// Only the response to the latest issued request may be applied.
type resultsMsg struct {
	id     int
	query  string
	movies []models.Movie
	err    error
}
