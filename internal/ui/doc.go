// Package ui implements the interactive dashboard using bubbletea's Elm architecture.
//
// The dashboard is a single screen:
//  1. a [moviesearch.Model] at the top that searches TMDB as you type
//  2. a rating prompt that opens when a movie is picked (←/→ or digits, 0 for 10, enter saves, esc cancels)
//  3. a "Recently rated" carousel over the user's ratings (pgup/pgdown, wrapping at both ends)
//  4. side tabs for Ratings, Groups and Friends (tab to switch)
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving its own results via the
// [Msg] union type. Ratings are saved and listed through a [tasks.Rater], so the dashboard shares the rating rules of
// the CLI.
//
// The search input keeps keyboard focus while no prompt is open, so dashboard bindings use named keys (tab, pgup,
// pgdown, shift+arrows) and ctrl+c quits.
package ui
