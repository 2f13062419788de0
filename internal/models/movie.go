package models

import (
	"fmt"
	"strconv"
)

// Movie is a TMDB search result or cached movie.
//
// ReleaseDate and PosterPath are optional and empty when TMDB omits them.
type Movie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date,omitempty"`
	PosterPath  string `json:"poster_path,omitempty"`
	Overview    string `json:"overview,omitempty"`
}

// ReleaseYear parses the year out of ReleaseDate ("2010-07-15" -> 2010).
func (m Movie) ReleaseYear() (int, bool) {
	if len(m.ReleaseDate) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

// Label renders "Title (Year)", or just the title when the year is unknown.
func (m Movie) Label() string {
	if year, ok := m.ReleaseYear(); ok {
		return fmt.Sprintf("%s (%d)", m.Title, year)
	}
	return m.Title
}
