// Package models defines domain entities and persistence interfaces for flickpick.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs for external and joined data
//   - [Movie] : TMDB movie metadata, also the search controller's result item
//   - [RatedMovie] : a rating joined with its cached movie
//   - [Profile], [Session], [ResetToken] : auth records
//
// 2. Persistent Entities: database-backed models with accessors, validation and soft delete support
//   - [User] : local accounts with bcrypt password hashes
//   - [Rating] : a user's 1..10 score for a movie
//
// The Repository[T] interface defines standard CRUD operations for database access.
package models
