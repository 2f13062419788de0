// package repositories provides persistence layer implementations for all model types.
//
// [UserRepository] implements models.Repository[T], handling CRUD operations, soft deletes, and
// sequence generation. [RatingRepository] shares the soft deletes and sequences but is keyed by
// (user, movie). The auth and cache repositories store plain records keyed by token or TMDB id.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// sequenced lists the tables that own a <table>_sequence counter.
var sequenced = map[string]bool{"users": true, "user_movies": true}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers provide human-readable ordering for entities (e.g., user #42, rating #15).
// They are NOT exposed in CLI output but used internally for sorting and debugging.
func NextSequence(db *sql.DB, table string) (int, error) {
	if !sequenced[table] {
		return 0, fmt.Errorf("table %q has no sequence", table)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	var sequence int
	err = tx.QueryRow(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1 RETURNING value", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// affected turns a zero-row result into notFound.
func affected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
