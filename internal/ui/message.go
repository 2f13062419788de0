package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/flickpick/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgRatingsFetched MsgKind = iota
	MsgRatingSaved
)

type ratingsFetched struct {
	ratings []models.RatedMovie
	err     error
}

type ratingSaved struct {
	movie   models.Movie
	rating  *models.Rating
	updated bool
	err     error
}

// ratingsFetchedMsg is the constructor for [MsgRatingsFetched]
func ratingsFetchedMsg(ratings []models.RatedMovie, err error) Msg {
	return Msg{kind: MsgRatingsFetched, data: ratingsFetched{ratings, err}}
}

// ratingSavedMsg is the constructor for [MsgRatingSaved]
func ratingSavedMsg(movie models.Movie, rating *models.Rating, updated bool, err error) Msg {
	return Msg{kind: MsgRatingSaved, data: ratingSaved{movie, rating, updated, err}}
}
