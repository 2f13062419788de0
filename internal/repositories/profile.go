package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
)

// ProfileRepository stores [models.Profile] rows in user_profile, one per user.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new [ProfileRepository] with the given database connection
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a profile. A duplicate username is reported as [shared.ErrUsernameTaken].
func (r *ProfileRepository) Create(profile *models.Profile) error {
	if profile.UserID == "" || profile.Username == "" {
		return fmt.Errorf("%w: profile requires a user id and username", shared.ErrInvalidInput)
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		"INSERT INTO user_profile (id, username, created_at) VALUES (?, ?, ?)",
		profile.UserID, profile.Username, profile.CreatedAt,
	)
	if shared.IsUniqueViolation(err) {
		return shared.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return nil
}

// Get retrieves the profile of userID
func (r *ProfileRepository) Get(userID string) (*models.Profile, error) {
	return r.scanOne(r.db.QueryRow("SELECT id, username, created_at FROM user_profile WHERE id = ?", userID), userID)
}

// GetByUsername retrieves a profile by its username
func (r *ProfileRepository) GetByUsername(username string) (*models.Profile, error) {
	return r.scanOne(r.db.QueryRow("SELECT id, username, created_at FROM user_profile WHERE username = ?", username), username)
}

// UsernameTaken reports whether a profile already uses username.
func (r *ProfileRepository) UsernameTaken(username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM user_profile WHERE username = ?)", username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

func (r *ProfileRepository) scanOne(row *sql.Row, key string) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.UserID, &p.Username, &p.CreatedAt)
	if isNoRows(err) {
		return nil, fmt.Errorf("profile not found: %s", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &p, nil
}
