package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/flickpick/internal/models"
	"github.com/dustin/go-humanize"
)

var (
	_ list.Item = ratedItem{}
)

// ratedItem wraps [models.RatedMovie] to implement [list.Item].
type ratedItem struct {
	rated models.RatedMovie
}

func (i ratedItem) FilterValue() string { return i.rated.Movie.Title }
func (i ratedItem) Title() string       { return i.rated.Movie.Label() }
func (i ratedItem) Description() string {
	desc := fmt.Sprintf("%d/10", i.rated.Rating)
	if !i.rated.RatedAt.IsZero() {
		desc = fmt.Sprintf("%s • rated %s", desc, humanize.Time(i.rated.RatedAt))
	}
	return desc
}

func ratedItems(ratings []models.RatedMovie) []list.Item {
	items := make([]list.Item, len(ratings))
	for i, r := range ratings {
		items[i] = ratedItem{rated: r}
	}
	return items
}
