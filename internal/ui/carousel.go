package ui

import (
	"fmt"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/dustin/go-humanize"
)

// carousel shows one rated movie at a time and wraps at both ends.
type carousel struct {
	header string
	items  []models.RatedMovie
	index  int
}

func (c *carousel) set(items []models.RatedMovie) {
	c.items = items
	if c.index >= len(items) {
		c.index = 0
	}
}

func (c *carousel) next() {
	if n := len(c.items); n > 0 {
		c.index = (c.index + 1) % n
	}
}

func (c *carousel) prev() {
	n := len(c.items)
	if n == 0 {
		return
	}
	if c.index == 0 {
		c.index = n - 1
	} else {
		c.index--
	}
}

func (c *carousel) current() (models.RatedMovie, bool) {
	if len(c.items) == 0 {
		return models.RatedMovie{}, false
	}
	return c.items[c.index], true
}

func (c *carousel) View() string {
	title := styles.ok.Render(c.header)

	rated, ok := c.current()
	if !ok {
		return title + "\n" + styles.help.Render("Rate a movie to start your collection.")
	}

	body := fmt.Sprintf("%s\n%s", styles.warn.Bold(true).Render(rated.Movie.Label()), fmt.Sprintf("★ %d/10", rated.Rating))
	if !rated.RatedAt.IsZero() {
		body += "\n" + styles.help.Render("rated "+humanize.Time(rated.RatedAt))
	}

	pager := styles.help.Render(fmt.Sprintf("‹ %d/%d ›", c.index+1, len(c.items)))
	return fmt.Sprintf("%s\n%s\n%s", title, styles.card.Render(body), pager)
}
