package tasks

import (
	"fmt"

	"github.com/desertthunder/flickpick/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ParseEntries Phase = iota
	SearchMovies
	SaveRatings
)

func (p Phase) String() string {
	switch p {
	case ParseEntries:
		return "parse"
	case SearchMovies:
		return "search"
	case SaveRatings:
		return "save"
	default:
		return ""
	}
}

func parseEntriesUpdate(valid, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseEntries,
		Step:    valid,
		Total:   total,
		Message: fmt.Sprintf("Parsed %d of %d entries", valid, total),
	}
}

func invalidEntryUpdate(step, total int, entry models.RatingEntry, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseEntries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("line %d: %v", entry.Line, err),
		Data:    entry,
	}
}

func searchMovieUpdate(step, total int, entry models.RatingEntry) ProgressUpdate {
	title := entry.Title
	if entry.Year > 0 {
		title = fmt.Sprintf("%s (%d)", entry.Title, entry.Year)
	}
	return ProgressUpdate{
		Phase:   SearchMovies,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching: %s", step, total, title),
	}
}

func ratingSavedUpdate(step, total int, res ImportResult) ProgressUpdate {
	verb := "Rated"
	if res.Updated {
		verb = "Updated"
	}
	return ProgressUpdate{
		Phase:   SaveRatings,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s %s: %d/10", step, total, verb, res.Movie.Label(), res.Entry.Rating),
		Data:    res,
	}
}

func ratingFailedUpdate(step, total int, res ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveRatings,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Entry.Title, res.Error),
		Data:    res,
	}
}
