package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/services"
	"github.com/desertthunder/flickpick/internal/shared"
	tu "github.com/desertthunder/flickpick/internal/testing"
	"github.com/urfave/cli/v3"
)

var inception = models.Movie{ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15"}

// captureMailer records reset links and, when visit is set, opens them like a user clicking the email.
type captureMailer struct {
	visit bool

	mu    sync.Mutex
	links []string
}

func (m *captureMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	m.mu.Lock()
	m.links = append(m.links, link)
	m.mu.Unlock()

	if m.visit {
		go func() {
			resp, err := http.Get(link)
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	return nil
}

func (m *captureMailer) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.links) == 0 {
		return ""
	}
	return m.links[len(m.links)-1]
}

func newTestRunner(t *testing.T, opts RunnerOpts) (*Runner, *bytes.Buffer) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	config := shared.DefaultConfig()
	config.Auth.SessionPath = filepath.Join(t.TempDir(), "session.json")
	config.Server.Host = "127.0.0.1"
	config.Server.Port = 0

	output := &bytes.Buffer{}
	opts.Config = config
	opts.DB = db
	opts.Output = output
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	return NewRunner(opts), output
}

// run executes args against a fresh command tree, as main does.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "flickpick", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"flickpick"}, args...))
}

func mustRun(t *testing.T, r *Runner, args ...string) {
	t.Helper()
	if err := run(t, r, args...); err != nil {
		t.Fatalf("%s: unexpected error: %v", strings.Join(args, " "), err)
	}
}

func signedIn(t *testing.T, r *Runner) {
	t.Helper()
	mustRun(t, r, "auth", "register", "--email", "ada@example.com", "--password", "secret1", "--username", "ada")
	mustRun(t, r, "auth", "login", "--email", "ada@example.com", "--password", "secret1")
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := &tu.MockSearcher{}
			api := &services.APIService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalog:    catalog,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output and input uses stdio", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("fills reset timeout and browser opener", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.resetTimeout != defaultResetTimeout {
				t.Errorf("expected reset timeout %s, got %s", defaultResetTimeout, runner.resetTimeout)
			}
			if runner.openURL == nil {
				t.Error("expected openURL to default to the system browser")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.configName() != "/test/path/config.toml" {
				t.Errorf("expected configName to use the path, got %s", runner.configName())
			}
		})

		t.Run("with empty configPath", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: ""})

			if runner.configName() != "config.toml" {
				t.Errorf("expected config.toml, got %s", runner.configName())
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writePlainln surrounds text with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlainln("done"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "\ndone\n" {
				t.Errorf("expected %q, got %q", "\ndone\n", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "auth", "movies", "cache", "api", "tui"} {
			if !names[want] {
				t.Errorf("expected %q to be registered", want)
			}
		}
	})

	t.Run("Close", func(t *testing.T) {
		t.Run("leaves a provided database open", func(t *testing.T) {
			runner, _ := newTestRunner(t, RunnerOpts{Catalog: &tu.MockSearcher{}})
			if err := runner.open(); err != nil {
				t.Fatalf("open failed: %v", err)
			}

			if err := runner.Close(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := runner.db.Ping(); err != nil {
				t.Errorf("expected database to stay open, got %v", err)
			}
		})

		t.Run("closes a database it opened", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = filepath.Join(t.TempDir(), "flickpick.db")
			config.Auth.SessionPath = filepath.Join(t.TempDir(), "session.json")
			runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

			if err := runner.open(); err != nil {
				t.Fatalf("open failed: %v", err)
			}
			if err := runner.Close(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := runner.db.Ping(); err == nil {
				t.Error("expected database to be closed")
			}
		})
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("register, login, status and logout", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: &tu.MockSearcher{}})

		mustRun(t, runner, "auth", "register", "--email", "ada@example.com", "--password", "secret1", "--username", "ada")
		if !strings.Contains(output.String(), "✓ Registered ada@example.com as ada") {
			t.Errorf("unexpected register output: %q", output.String())
		}

		output.Reset()
		mustRun(t, runner, "auth", "login", "--email", "ada@example.com", "--password", "secret1", "--keep")
		if !strings.Contains(output.String(), "✓ Signed in as ada@example.com") {
			t.Errorf("unexpected login output: %q", output.String())
		}

		output.Reset()
		mustRun(t, runner, "auth", "status")
		if !strings.Contains(output.String(), "Username: ada") {
			t.Errorf("expected username in status, got %q", output.String())
		}

		output.Reset()
		mustRun(t, runner, "auth", "logout")
		mustRun(t, runner, "auth", "status")
		if !strings.Contains(output.String(), "✗ Not signed in") {
			t.Errorf("expected signed out status, got %q", output.String())
		}
	})

	t.Run("register rejects a short password", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: &tu.MockSearcher{}})

		err := run(t, runner, "auth", "register", "--email", "ada@example.com", "--password", "123", "--username", "ada")
		if !errors.Is(err, shared.ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("register rejects a taken username", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: &tu.MockSearcher{}})
		mustRun(t, runner, "auth", "register", "--email", "ada@example.com", "--password", "secret1", "--username", "ada")

		err := run(t, runner, "auth", "register", "--email", "bob@example.com", "--password", "secret1", "--username", "ada")
		if !errors.Is(err, shared.ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("login with a wrong password fails", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: &tu.MockSearcher{}})
		mustRun(t, runner, "auth", "register", "--email", "ada@example.com", "--password", "secret1", "--username", "ada")

		err := run(t, runner, "auth", "login", "--email", "ada@example.com", "--password", "nope123")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("waits for the link and sets the new password", func(t *testing.T) {
		mailer := &captureMailer{visit: true}
		runner, output := newTestRunner(t, RunnerOpts{
			Catalog:      &tu.MockSearcher{},
			Mailer:       mailer,
			ResetTimeout: 5 * time.Second,
		})
		signedIn(t, runner)

		mustRun(t, runner, "auth", "reset-password", "--email", "ada@example.com", "--new-password", "changed1")

		if !strings.Contains(mailer.last(), "/reset-password?token=") {
			t.Errorf("expected reset link to the callback server, got %q", mailer.last())
		}
		if !strings.Contains(output.String(), "✓ Password updated") {
			t.Errorf("expected password update, got %q", output.String())
		}

		if err := run(t, runner, "auth", "login", "--email", "ada@example.com", "--password", "secret1"); err == nil {
			t.Error("expected old password to be rejected")
		}
		mustRun(t, runner, "auth", "login", "--email", "ada@example.com", "--password", "changed1")
	})

	t.Run("times out when the link is never opened", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{
			Catalog:      &tu.MockSearcher{},
			Mailer:       &captureMailer{},
			ResetTimeout: 50 * time.Millisecond,
		})

		err := run(t, runner, "auth", "reset-password", "--email", "nobody@example.com", "--new-password", "changed1")
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("no-wait then token completes the reset with a prompted password", func(t *testing.T) {
		mailer := &captureMailer{}
		runner, output := newTestRunner(t, RunnerOpts{
			Catalog: &tu.MockSearcher{},
			Mailer:  mailer,
			Input:   strings.NewReader("prompted1\n"),
		})
		signedIn(t, runner)

		mustRun(t, runner, "auth", "reset-password", "--email", "ada@example.com", "--no-wait")

		link, err := url.Parse(mailer.last())
		if err != nil {
			t.Fatalf("invalid reset link %q: %v", mailer.last(), err)
		}
		token := link.Query().Get("token")
		if token == "" {
			t.Fatalf("expected token in link %q", mailer.last())
		}

		output.Reset()
		mustRun(t, runner, "auth", "reset-password", "--token", token)
		if !strings.Contains(output.String(), "New password: ") {
			t.Errorf("expected password prompt, got %q", output.String())
		}

		mustRun(t, runner, "auth", "login", "--email", "ada@example.com", "--password", "prompted1")

		if err := run(t, runner, "auth", "reset-password", "--token", token, "--new-password", "again123"); !errors.Is(err, shared.ErrInvalidToken) {
			t.Errorf("expected used token to be rejected, got %v", err)
		}
	})

	t.Run("requires an email without a token", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: &tu.MockSearcher{}})

		err := run(t, runner, "auth", "reset-password")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestMoviesCommands(t *testing.T) {
	catalog := func() *tu.MockSearcher {
		return &tu.MockSearcher{Results: map[string][]models.Movie{
			"Inception": {inception},
			"Heat":      {{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15"}},
		}}
	}

	t.Run("search prints numbered results", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: catalog()})

		mustRun(t, runner, "movies", "search", "Inception")
		if !strings.Contains(output.String(), " 1. Inception (2010) [id 27205]") {
			t.Errorf("unexpected search output: %q", output.String())
		}
	})

	t.Run("search reports no results", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: catalog()})

		mustRun(t, runner, "movies", "search", "zzzz")
		if output.String() != "No results found\n" {
			t.Errorf("expected no results message, got %q", output.String())
		}
	})

	t.Run("search as JSON", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: catalog()})

		mustRun(t, runner, "movies", "search", "--json", "Inception")

		var movies []models.Movie
		if err := json.Unmarshal(output.Bytes(), &movies); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", output.String(), err)
		}
		if len(movies) != 1 || movies[0].ID != inception.ID {
			t.Errorf("unexpected movies: %+v", movies)
		}
	})

	t.Run("search requires a query", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: catalog()})

		if err := run(t, runner, "movies", "search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("commands that need TMDB fail without credentials", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{})

		if err := run(t, runner, "movies", "search", "Inception"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("rating requires a session", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: catalog()})

		err := run(t, runner, "movies", "add", "--id", "27205", "--rating", "8")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("add, re-rate, list and export", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: catalog()})
		signedIn(t, runner)

		output.Reset()
		mustRun(t, runner, "movies", "add", "--id", "27205", "--rating", "9")
		if !strings.Contains(output.String(), "✓ Rated Inception (2010): 9/10") {
			t.Errorf("unexpected add output: %q", output.String())
		}

		output.Reset()
		mustRun(t, runner, "movies", "add", "--id", "27205", "--rating", "10")
		if !strings.Contains(output.String(), "✓ Updated Inception (2010): 10/10") {
			t.Errorf("unexpected re-rate output: %q", output.String())
		}

		output.Reset()
		mustRun(t, runner, "movies", "list", "--json")
		var rated []models.RatedMovie
		if err := json.Unmarshal(output.Bytes(), &rated); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", output.String(), err)
		}
		if len(rated) != 1 || rated[0].Rating != 10 {
			t.Errorf("expected a single 10/10 rating, got %+v", rated)
		}

		output.Reset()
		mustRun(t, runner, "movies", "export")
		if !strings.HasPrefix(output.String(), "Title,Rating,Year,TMDB ID,Rated At\n") {
			t.Errorf("expected CSV header, got %q", output.String())
		}
		if !strings.Contains(output.String(), "Inception,10,2010,27205,") {
			t.Errorf("expected CSV row, got %q", output.String())
		}
	})

	t.Run("remove deletes a rating", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: catalog()})
		signedIn(t, runner)
		mustRun(t, runner, "movies", "add", "--id", "27205", "--rating", "9")
		mustRun(t, runner, "movies", "add", "--id", "949", "--rating", "7")

		output.Reset()
		mustRun(t, runner, "movies", "remove", "--id", "27205")
		if !strings.Contains(output.String(), "✓ Removed your rating of Inception") {
			t.Errorf("unexpected remove output: %q", output.String())
		}

		output.Reset()
		mustRun(t, runner, "movies", "list", "--json")
		var rated []models.RatedMovie
		if err := json.Unmarshal(output.Bytes(), &rated); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", output.String(), err)
		}
		if len(rated) != 1 || rated[0].Movie.ID != 949 {
			t.Errorf("expected only Heat to remain, got %+v", rated)
		}

		if err := run(t, runner, "movies", "rm", "--id", "27205"); !errors.Is(err, shared.ErrRatingNotFound) {
			t.Errorf("expected ErrRatingNotFound, got %v", err)
		}
	})

	t.Run("add rejects an out of range rating", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: catalog()})
		signedIn(t, runner)

		if err := run(t, runner, "movies", "add", "--id", "27205", "--rating", "11"); !errors.Is(err, shared.ErrInvalidRating) {
			t.Errorf("expected ErrInvalidRating, got %v", err)
		}
	})

	t.Run("export to a file", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: catalog()})
		signedIn(t, runner)
		mustRun(t, runner, "movies", "add", "--id", "949", "--rating", "7")

		path := filepath.Join(t.TempDir(), "ratings.md")
		output.Reset()
		mustRun(t, runner, "movies", "export", "--format", "markdown", "--output", path)

		if !strings.Contains(output.String(), "✓ Exported 1 ratings to") {
			t.Errorf("unexpected export output: %q", output.String())
		}
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "Heat") {
			t.Errorf("expected Heat in export, got %q", content)
		}
	})

	t.Run("import rates found titles and reports failures", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: catalog()})
		signedIn(t, runner)

		path := filepath.Join(t.TempDir(), "ratings.csv")
		csv := "title,rating,year\nInception,8,2010\nUnknown Film,5\nHeat,6,1995\n"
		if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
			t.Fatalf("failed to write CSV: %v", err)
		}

		output.Reset()
		mustRun(t, runner, "movies", "import", "--file", path, "--rate", "1000")

		out := output.String()
		for _, want := range []string{"Entries:  3", "Imported: 2", "Failed:   1", "line 3: Unknown Film"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in import output, got %q", want, out)
			}
		}
	})

	t.Run("import as JSON", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: catalog()})
		signedIn(t, runner)

		path := filepath.Join(t.TempDir(), "ratings.csv")
		if err := os.WriteFile(path, []byte("Inception,8\n"), 0o644); err != nil {
			t.Fatalf("failed to write CSV: %v", err)
		}

		output.Reset()
		mustRun(t, runner, "movies", "import", "--file", path, "--json", "--rate", "1000")

		var result struct {
			Imported int `json:"imported"`
			Failed   int `json:"failed"`
		}
		if err := json.Unmarshal(output.Bytes(), &result); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", output.String(), err)
		}
		if result.Imported != 1 || result.Failed != 0 {
			t.Errorf("unexpected import result: %+v", result)
		}
	})

	t.Run("open hands the TMDB page to the browser", func(t *testing.T) {
		var opened string
		runner, output := newTestRunner(t, RunnerOpts{
			Catalog: catalog(),
			OpenURL: func(u string) error { opened = u; return nil },
		})

		mustRun(t, runner, "movies", "open", "--id", "27205")

		if opened != "https://example.com/movie/27205" {
			t.Errorf("expected movie page to be opened, got %q", opened)
		}
		if !strings.Contains(output.String(), "✓ Opened") {
			t.Errorf("unexpected open output: %q", output.String())
		}
	})

	t.Run("open prints the link when the browser fails", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{
			Catalog: catalog(),
			OpenURL: func(string) error { return errors.New("no browser") },
		})

		if err := run(t, runner, "movies", "open", "--id", "27205"); err == nil {
			t.Fatal("expected browser error")
		}
		if !strings.Contains(output.String(), "https://example.com/movie/27205") {
			t.Errorf("expected link in output, got %q", output.String())
		}
	})
}

func TestCacheCommands(t *testing.T) {
	runner, output := newTestRunner(t, RunnerOpts{Catalog: &tu.MockSearcher{
		Results: map[string][]models.Movie{"Inception": {inception}},
	}})

	mustRun(t, runner, "cache", "stats")
	if output.String() != "Cached movies: 0\n" {
		t.Errorf("expected empty cache, got %q", output.String())
	}

	output.Reset()
	mustRun(t, runner, "cache", "movie", "--id", "27205")
	mustRun(t, runner, "cache", "movie", "--id", "27205")
	if !strings.Contains(output.String(), "✓ Cached Inception (2010)") {
		t.Errorf("unexpected cache output: %q", output.String())
	}

	output.Reset()
	mustRun(t, runner, "cache", "stats")
	if output.String() != "Cached movies: 1\n" {
		t.Errorf("expected one cached movie, got %q", output.String())
	}

	if err := run(t, runner, "cache", "movie", "--id", "1"); !errors.Is(err, shared.ErrMovieNotFound) {
		t.Errorf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestSetupCommands(t *testing.T) {
	runner, output := newTestRunner(t, RunnerOpts{})

	mustRun(t, runner, "setup", "status")
	if !strings.Contains(output.String(), "Pending") {
		t.Errorf("expected migration status, got %q", output.String())
	}
}
