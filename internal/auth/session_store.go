package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/flickpick/internal/shared"
)

// SessionStore keeps the current session token in a file so that separate CLI invocations share a login.
//
// The file holds only the token; the session itself lives in the database.
type SessionStore struct {
	path string
	mu   sync.Mutex
}

type sessionFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// NewSessionStore creates a store backed by path. The file is created on the first [SessionStore.Save].
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

func (s *SessionStore) Path() string { return s.path }

// Save writes token, readable by the current user only.
func (s *SessionStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := shared.MarshalJSON(sessionFile{Token: token, SavedAt: time.Now()}, true)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load returns the saved token, or "" when no session is saved.
func (s *SessionStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("%w: corrupt session file %s", shared.ErrInvalidToken, s.path)
	}
	return f.Token, nil
}

// Clear removes the session file. A missing file is not an error.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
