// Package tasks orchestrates movie rating operations with real-time progress reporting.
//
// # Core Operations
//
// The [Rater] interface defines three operations:
//
//  1. [Rater.Rate] : Rate a single movie
//     - Rejects scores outside 1..10 with shared.ErrInvalidRating
//     - Caches the movie metadata for listings
//     - Updates the user's existing rating of the movie instead of adding a second one
//
//  2. [Rater.Ratings] : List a user's rated movies, most recently rated first
//
//  3. [Rater.BulkImport] : Rate many movies from a parsed ratings file
//     - Searches the catalog for the best match of each title (narrowed by year when given)
//     - Runs a bounded worker pool behind a shared rate limiter
//     - Returns per-entry results in input order plus imported, updated and failed counts
//
// # Progress Reporting
//
// BulkImport sends [ProgressUpdate] values through a caller-supplied channel. Updates use select
// with default so a slow or absent reader never blocks the import.
//
// # Movie Caching
//
// The optional [MovieCacher] interface stores movie metadata next to the ratings. Cache failures
// are logged and otherwise ignored.
//
// # Implementation
//
// [RatingEngine] implements [Rater] with dependencies on:
//   - [services.MovieCatalog] : TMDB search and lookups
//   - [RatingStore] : Rating persistence (repositories.RatingRepository)
//   - [MovieCacher] : Optional metadata cache (repositories.MovieCacheAdapter)
package tasks
