// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
)

// MockSearcher is a test double for services.MovieSearcher and services.MovieCatalog.
//
// SearchMovies answers from Results by exact query unless SearchFunc is set. Every call is recorded.
type MockSearcher struct {
	Results    map[string][]models.Movie
	Err        error
	SearchFunc func(ctx context.Context, query string) ([]models.Movie, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockSearcher) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results[query], nil
}

// SearchBestMatch returns the first result of SearchMovies(title); year is ignored.
func (m *MockSearcher) SearchBestMatch(ctx context.Context, title string, year int) (*models.Movie, error) {
	movies, err := m.SearchMovies(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrMovieNotFound, title)
	}
	return &movies[0], nil
}

// GetMovie looks id up across every configured result set.
func (m *MockSearcher) GetMovie(ctx context.Context, id int) (*models.Movie, error) {
	for _, movies := range m.Results {
		for _, movie := range movies {
			if movie.ID == id {
				return &movie, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
}

func (m *MockSearcher) MovieURL(id int) string { return fmt.Sprintf("https://example.com/movie/%d", id) }
func (m *MockSearcher) Name() string           { return "mock" }

// Calls returns the queries searched so far, in order.
func (m *MockSearcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
