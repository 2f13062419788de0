package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/flickpick/internal/models"
)

const DefaultPromptRating = 5

// ratingPrompt is the score picker opened for a selected movie.
type ratingPrompt struct {
	movie models.Movie
	score int
}

func newRatingPrompt(movie models.Movie) *ratingPrompt {
	return &ratingPrompt{movie: movie, score: DefaultPromptRating}
}

func (p *ratingPrompt) lower() {
	if p.score > models.MinRating {
		p.score--
	}
}

func (p *ratingPrompt) raise() {
	if p.score < models.MaxRating {
		p.score++
	}
}

// setDigit sets the score from a typed digit; "0" means 10.
func (p *ratingPrompt) setDigit(s string) bool {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return false
	}
	p.score = int(s[0] - '0')
	if p.score == 0 {
		p.score = models.MaxRating
	}
	return true
}

func (p *ratingPrompt) stars() string {
	return strings.Repeat("★", p.score) + strings.Repeat("☆", models.MaxRating-p.score)
}

func (p *ratingPrompt) View() string {
	return fmt.Sprintf("Rate %s\n◀ %s %s ▶",
		styles.warn.Render(p.movie.Label()),
		styles.ok.Render(fmt.Sprintf("%2d/10", p.score)),
		styles.warn.Render(p.stars()),
	)
}
