// Package auth implements local accounts for flickpick: sign-up, password sign-in with file-backed sessions,
// password resets by emailed link, and username registration.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/repositories"
	"github.com/desertthunder/flickpick/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	DefaultSessionTTL = 24 * time.Hour
	DefaultKeepTTL    = 30 * 24 * time.Hour
	ResetTokenTTL     = time.Hour
)

// Option configures a [Service].
type Option func(*Service)

// WithMailer sets the reset link delivery. Defaults to a [LogMailer] on the service logger.
func WithMailer(m Mailer) Option {
	return func(s *Service) { s.mailer = m }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionTTL sets the lifetime of normal and "keep me logged in" sessions. Non-positive values keep the defaults.
func WithSessionTTL(session, keep time.Duration) Option {
	return func(s *Service) {
		if session > 0 {
			s.sessionTTL = session
		}
		if keep > 0 {
			s.keepTTL = keep
		}
	}
}

// WithClock replaces time.Now, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// Service is the account backend: users, profiles, sessions and reset tokens in SQLite,
// with the current session token kept in a [SessionStore].
type Service struct {
	users    *repositories.UserRepository
	profiles *repositories.ProfileRepository
	sessions *repositories.SessionRepository
	resets   *repositories.ResetTokenRepository
	store    *SessionStore
	mailer   Mailer
	logger   *log.Logger

	sessionTTL time.Duration
	keepTTL    time.Duration
	cost       int
	now        func() time.Time
}

// NewService creates an auth [Service] over a migrated database.
func NewService(db *sql.DB, store *SessionStore, opts ...Option) *Service {
	s := &Service{
		users:      repositories.NewUserRepository(db),
		profiles:   repositories.NewProfileRepository(db),
		sessions:   repositories.NewSessionRepository(db),
		resets:     repositories.NewResetTokenRepository(db),
		store:      store,
		logger:     log.New(io.Discard),
		sessionTTL: DefaultSessionTTL,
		keepTTL:    DefaultKeepTTL,
		cost:       bcrypt.DefaultCost,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.mailer == nil {
		s.mailer = NewLogMailer(s.logger)
	}
	return s
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.ErrWeakPassword
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

// SignUp creates an account. The email must contain "@" and the password must be at least six characters.
// An email that is already registered yields [shared.ErrEmailTaken].
func (s *Service) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email %q", shared.ErrInvalidInput, email)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	h, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(0, email, h)
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "user", user.ID())
	return user, nil
}

// SignInWithPassword checks the credentials and starts a session, saving its token to the store.
// With keep set the session lasts the longer "keep me logged in" lifetime.
//
// Unknown emails and wrong passwords both yield [shared.ErrInvalidCredentials].
func (s *Service) SignInWithPassword(ctx context.Context, email, password string, keep bool) (*models.Session, error) {
	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if errors.Is(err, shared.ErrUserNotFound) {
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	token, err := shared.GenerateToken()
	if err != nil {
		return nil, err
	}

	ttl := s.sessionTTL
	if keep {
		ttl = s.keepTTL
	}

	now := s.now()
	session := &models.Session{
		Token:     token,
		UserID:    user.ID(),
		Keep:      keep,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}
	if err := s.store.Save(token); err != nil {
		return nil, err
	}

	if n, err := s.sessions.DeleteExpired(now); err == nil && n > 0 {
		s.logger.Debug("pruned expired sessions", "count", n)
	}

	s.logger.Info("user signed in", "user", user.ID(), "keep", keep)
	return session, nil
}

// GetSession returns the current session, or nil when nobody is signed in. A saved token that is
// unknown or expired is discarded.
func (s *Service) GetSession(ctx context.Context) (*models.Session, error) {
	token, err := s.store.Load()
	if err != nil {
		s.logger.Warn("discarding unreadable session file", "err", err)
		return nil, s.store.Clear()
	}
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.Get(token)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return nil, s.store.Clear()
	}
	if err != nil {
		return nil, err
	}

	if session.Expired(s.now()) {
		s.logger.Debug("session expired", "user", session.UserID)
		if err := s.sessions.Delete(token); err != nil {
			return nil, err
		}
		return nil, s.store.Clear()
	}

	return session, nil
}

// GetUser returns the signed-in user, or nil when nobody is signed in.
func (s *Service) GetUser(ctx context.Context) (*models.User, error) {
	session, err := s.GetSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}

	user, err := s.users.Get(session.UserID)
	if errors.Is(err, shared.ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// RequireUser is GetUser for callers that cannot proceed anonymously: nobody signed in yields
// [shared.ErrNotAuthenticated].
func (s *Service) RequireUser(ctx context.Context) (*models.User, error) {
	user, err := s.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return user, nil
}

// SignOut ends the current session. Signing out without a session is a no-op.
func (s *Service) SignOut(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil || token == "" {
		return s.store.Clear()
	}

	if err := s.sessions.Delete(token); err != nil {
		return err
	}
	return s.store.Clear()
}

// ResetPasswordForEmail issues a one-hour reset token and mails redirectTo with the token appended
// as the "token" query parameter.
//
// Unknown emails succeed without sending anything, so the call does not reveal who has an account.
func (s *Service) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	link, err := url.Parse(redirectTo)
	if err != nil || link.Scheme == "" || link.Host == "" {
		return fmt.Errorf("%w: invalid redirect url %q", shared.ErrInvalidInput, redirectTo)
	}

	email = strings.TrimSpace(email)
	user, err := s.users.GetByEmail(email)
	if errors.Is(err, shared.ErrUserNotFound) {
		s.logger.Debug("password reset for unknown email", "email", email)
		return nil
	}
	if err != nil {
		return err
	}

	token, err := shared.GenerateToken()
	if err != nil {
		return err
	}

	now := s.now()
	reset := &models.ResetToken{
		Token:      token,
		UserID:     user.ID(),
		RedirectTo: redirectTo,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ResetTokenTTL),
	}
	if err := s.resets.Create(reset); err != nil {
		return err
	}

	q := link.Query()
	q.Set("token", token)
	link.RawQuery = q.Encode()

	return s.mailer.SendPasswordReset(ctx, user.Email(), link.String())
}

// VerifyResetToken returns the reset token if it can still be used.
// Unknown, used and expired tokens all yield [shared.ErrInvalidToken].
func (s *Service) VerifyResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	if token == "" {
		return nil, shared.ErrInvalidToken
	}

	reset, err := s.resets.Get(token)
	if err != nil {
		return nil, err
	}
	if !reset.Usable(s.now()) {
		return nil, shared.ErrInvalidToken
	}
	return reset, nil
}

// UpdatePassword consumes a reset token and sets a new password. Every session of the user is
// revoked, so other signed-in terminals must sign in again.
func (s *Service) UpdatePassword(ctx context.Context, token, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	reset, err := s.VerifyResetToken(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.users.Get(reset.UserID)
	if err != nil {
		return err
	}

	h, err := s.hash(password)
	if err != nil {
		return err
	}
	user.SetPasswordHash(h)

	// The token is only spent once the new hash is stored, so a failed update can be retried.
	if err := s.users.Update(user); err != nil {
		return err
	}
	if err := s.resets.MarkUsed(token, s.now()); err != nil {
		return err
	}

	revoked, err := s.sessions.DeleteByUser(user.ID())
	if err != nil {
		return err
	}

	s.logger.Info("password updated", "user", user.ID(), "revoked_sessions", revoked)
	return nil
}

// Register creates an account with a public username.
//
// The username is checked first so a taken name never leaves a dangling account behind.
// Errors map as follows: a taken username is [shared.ErrUsernameTaken], a failed check is
// [shared.ErrUsernameCheck], sign-up errors are returned as is, and a failed profile insert is
// wrapped in [shared.ErrProfileCreation].
func (s *Service) Register(ctx context.Context, email, password, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	}

	taken, err := s.profiles.UsernameTaken(username)
	if err != nil {
		s.logger.Error("username check failed", "username", username, "err", err)
		return nil, shared.ErrUsernameCheck
	}
	if taken {
		return nil, shared.ErrUsernameTaken
	}

	user, err := s.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{UserID: user.ID(), Username: username, CreatedAt: s.now()}
	if err := s.profiles.Create(profile); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrProfileCreation, err)
	}

	return user, nil
}

// Profile returns the public profile of userID.
func (s *Service) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profiles.Get(userID)
}
