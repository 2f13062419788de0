package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flickpick/internal/auth"
	"github.com/desertthunder/flickpick/internal/repositories"
	"github.com/desertthunder/flickpick/internal/services"
	"github.com/desertthunder/flickpick/internal/shared"
	"github.com/desertthunder/flickpick/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultResetTimeout = 2 * time.Minute

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database, auth service and rating engine are opened on first use, so commands that only talk to TMDB
// (or create the config) work before `setup database` has run.
type Runner struct {
	config       *shared.Config
	configPath   string
	catalog      services.MovieCatalog
	api          *services.APIService
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer
	input        io.Reader
	mailer       auth.Mailer
	openURL      func(string) error
	resetTimeout time.Duration

	db     *sql.DB
	ownsDB bool
	auth   *auth.Service
	engine *tasks.RatingEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.MovieCatalog
	API        *services.APIService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader

	// DB replaces the configured database. The runner does not close it.
	DB *sql.DB

	// Mailer delivers password reset links; defaults to logging them.
	Mailer auth.Mailer

	// OpenURL opens a page in the browser; defaults to [shared.OpenBrowser].
	OpenURL func(string) error

	// ResetTimeout bounds how long auth reset-password waits for the link to be visited.
	ResetTimeout time.Duration
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = defaultResetTimeout
	}

	return &Runner{
		config:       opts.Config,
		configPath:   opts.ConfigPath,
		catalog:      opts.Catalog,
		api:          opts.API,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		output:       opts.Output,
		input:        opts.Input,
		mailer:       opts.Mailer,
		openURL:      opts.OpenURL,
		resetTimeout: opts.ResetTimeout,
		db:           opts.DB,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger of the runner. Services already opened keep their logger.
func (r *Runner) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

// open connects the database and builds the auth service and rating engine, once.
func (r *Runner) open() error {
	if r.auth != nil {
		return nil
	}

	if r.db == nil {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return fmt.Errorf("failed to open database (run `flickpick setup database` first?): %w", err)
		}
		r.db = db
		r.ownsDB = true
	}

	sessionPath, err := r.config.Auth.SessionFile()
	if err != nil {
		return err
	}

	r.auth = auth.NewService(r.db, auth.NewSessionStore(sessionPath),
		auth.WithLogger(shared.WithLogger(r.logger, "component", "auth")),
		auth.WithMailer(r.mailer),
		auth.WithSessionTTL(r.config.Auth.SessionTTL(false), r.config.Auth.SessionTTL(true)),
	)

	r.engine = tasks.NewRatingEngine(
		r.catalog,
		repositories.NewRatingRepository(r.db),
		repositories.NewMovieCacheAdapter(repositories.NewMovieRepository(r.db)),
		shared.WithLogger(r.logger, "component", "ratings"),
	)

	return nil
}

// Close releases the database if the runner opened it.
func (r *Runner) Close() error {
	if r.db != nil && r.ownsDB {
		r.ownsDB = false
		return r.db.Close()
	}
	return nil
}

func (r *Runner) requireCatalog() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: TMDB is not configured; set credentials.tmdb.api_key in %s or TMDB_API_KEY",
			shared.ErrMissingCredentials, r.configName())
	}
	return nil
}

func (r *Runner) configName() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
