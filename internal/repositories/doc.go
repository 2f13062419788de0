// Package repositories implements SQLite persistence for flickpick.
//
// Key Implementations:
//   - [UserRepository] : local accounts with email lookups and soft deletes
//   - [ProfileRepository] : usernames keyed by user id
//   - [SessionRepository] : signed-in sessions keyed by token
//   - [ResetTokenRepository] : single-use password reset tokens
//   - [MovieRepository] : TMDB metadata cache keyed by TMDB id
//   - [RatingRepository] : one 1..10 rating per (user, movie) with soft deletes
//
// Sequence numbers provide stable, human-readable ordering (e.g., user #42, rating #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
