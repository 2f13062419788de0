package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

//go:embed config.example.toml
var exampleConf []byte

const appName = "flickpick"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Search      SearchConfig      `toml:"search"`
	Auth        AuthConfig        `toml:"auth"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	TMDB TMDBConfig `toml:"tmdb"`
}

// TMDBConfig contains The Movie Database API credentials.
//
// Either APIKey (v3, sent as a query parameter) or AccessToken (v4 read token, sent as a bearer token) must be set.
type TMDBConfig struct {
	APIKey       string `toml:"api_key"`
	AccessToken  string `toml:"access_token"`
	BaseURL      string `toml:"base_url"`
	ImageBaseURL string `toml:"image_base_url"`
}

// Map returns the credentials in the form expected by services.NewTMDBService.
func (c TMDBConfig) Map() map[string]string {
	return map[string]string{
		"api_key":        c.APIKey,
		"access_token":   c.AccessToken,
		"base_url":       c.BaseURL,
		"image_base_url": c.ImageBaseURL,
	}
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local password reset callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SearchConfig tunes the incremental movie search.
type SearchConfig struct {
	DebounceMS   int     `toml:"debounce_ms"`
	RateLimit    float64 `toml:"rate_limit"`
	Language     string  `toml:"language"`
	IncludeAdult bool    `toml:"include_adult"`
}

// Debounce returns the debounce interval, defaulting to 500ms.
func (s SearchConfig) Debounce() time.Duration {
	if s.DebounceMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// AuthConfig contains session settings for the local auth service.
type AuthConfig struct {
	SessionPath     string `toml:"session_path"`
	SessionTTLHours int    `toml:"session_ttl_hours"`
	KeepTTLHours    int    `toml:"keep_ttl_hours"`
}

// SessionFile resolves the session file path, falling back to the XDG state directory.
func (a AuthConfig) SessionFile() (string, error) {
	if a.SessionPath != "" {
		return a.SessionPath, nil
	}
	path, err := xdg.StateFile(filepath.Join(appName, "session.json"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve session path: %w", err)
	}
	return path, nil
}

// SessionTTL returns the lifetime of a session; keep selects the "keep me logged in" lifetime.
func (a AuthConfig) SessionTTL(keep bool) time.Duration {
	hours := a.SessionTTLHours
	if keep {
		hours = a.KeepTTLHours
	}
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overrides credentials with TMDB_API_KEY and TMDB_ACCESS_TOKEN when they are set.
func (c *Config) ApplyEnv() {
	if key, ok := os.LookupEnv("TMDB_API_KEY"); ok && key != "" {
		c.Credentials.TMDB.APIKey = key
	}
	if token, ok := os.LookupEnv("TMDB_ACCESS_TOKEN"); ok && token != "" {
		c.Credentials.TMDB.AccessToken = token
	}
}

// Validate reports configuration values that would make the application unusable.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Search.RateLimit < 0 {
		return fmt.Errorf("%w: search.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// HasTMDBCredentials reports whether an api key or access token is configured.
func (c *Config) HasTMDBCredentials() bool {
	tmdb := c.Credentials.TMDB
	return (tmdb.APIKey != "" && tmdb.APIKey != "your_tmdb_api_key") || tmdb.AccessToken != ""
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes the configuration back to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
