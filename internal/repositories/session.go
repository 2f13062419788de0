package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
)

// SessionRepository persists signed-in [models.Session] records keyed by token.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores session.
func (r *SessionRepository) Create(session *models.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, keep, created_at, expires_at) VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, session.Token, session.UserID, session.Keep, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get retrieves a session by token, expired or not. Unknown tokens yield [shared.ErrNotAuthenticated].
func (r *SessionRepository) Get(token string) (*models.Session, error) {
	query := `
		SELECT token, user_id, keep, created_at, expires_at
		FROM sessions
		WHERE token = ?
	`

	var s models.Session
	err := r.db.QueryRow(query, token).Scan(&s.Token, &s.UserID, &s.Keep, &s.CreatedAt, &s.ExpiresAt)
	if isNoRows(err) {
		return nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &s, nil
}

// Delete removes one session.
func (r *SessionRepository) Delete(token string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUser revokes every session of userID and returns how many were removed.
func (r *SessionRepository) DeleteByUser(userID string) (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}
	return result.RowsAffected()
}

// DeleteExpired removes every session that expired at or before now.
func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE expires_at <= ?", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
