package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
)

// ResetTokenRepository persists single-use password reset tokens.
type ResetTokenRepository struct {
	db *sql.DB
}

// NewResetTokenRepository creates a new [ResetTokenRepository] with the given database connection
func NewResetTokenRepository(db *sql.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Create stores token.
func (r *ResetTokenRepository) Create(token *models.ResetToken) error {
	query := `
		INSERT INTO password_resets (token, user_id, redirect_to, created_at, expires_at) VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, token.Token, token.UserID, token.RedirectTo, token.CreatedAt, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}
	return nil
}

// Get retrieves a reset token. Unknown tokens yield [shared.ErrInvalidToken].
func (r *ResetTokenRepository) Get(token string) (*models.ResetToken, error) {
	query := `
		SELECT token, user_id, redirect_to, created_at, expires_at, used_at
		FROM password_resets
		WHERE token = ?
	`

	var (
		t      models.ResetToken
		usedAt sql.NullTime
	)
	err := r.db.QueryRow(query, token).Scan(&t.Token, &t.UserID, &t.RedirectTo, &t.CreatedAt, &t.ExpiresAt, &usedAt)
	if isNoRows(err) {
		return nil, shared.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query reset token: %w", err)
	}
	if usedAt.Valid {
		t.UsedAt = &usedAt.Time
	}

	return &t, nil
}

// MarkUsed consumes token. A token that is unknown or already used yields [shared.ErrInvalidToken].
func (r *ResetTokenRepository) MarkUsed(token string, at time.Time) error {
	result, err := r.db.Exec("UPDATE password_resets SET used_at = ? WHERE token = ? AND used_at IS NULL", at, token)
	if err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	return affected(result, shared.ErrInvalidToken)
}
