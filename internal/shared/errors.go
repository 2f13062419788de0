package shared

import "errors"

var (
	ErrNotImplemented = errors.New("not implemented")

	// Configuration errors
	ErrMissingConfig      = errors.New("configuration not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("user already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrTimeout            = errors.New("operation timed out")

	// Registration errors
	ErrUsernameTaken   = errors.New("username is already taken, please choose another")
	ErrUsernameCheck   = errors.New("failed to validate username, please try again")
	ErrProfileCreation = errors.New("profile creation failed")

	// API and service errors
	ErrAPIRequest         = errors.New("API request failed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrMovieNotFound      = errors.New("movie not found")
	ErrRatingNotFound     = errors.New("rating not found")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidRating   = errors.New("rating must be between 1 and 10")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidFlag     = errors.New("invalid flag value")
)
