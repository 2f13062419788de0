package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultImportWorkers = 4
	MaxImportWorkers     = 10
	DefaultImportRate    = 5.0
)

// BulkImportOpts contains configuration for bulk rating imports.
type BulkImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Catalog searches per second (default: 5)
}

// ImportResult is the outcome of one import entry.
type ImportResult struct {
	Entry   models.RatingEntry `json:"entry"`
	Movie   *models.Movie      `json:"movie,omitempty"`
	Updated bool               `json:"updated"`
	Success bool               `json:"success"`
	Error   error              `json:"-"`

	index int
}

// BulkImportResult summarizes a bulk import. Results keep the order of the input entries.
type BulkImportResult struct {
	TotalEntries int            `json:"total_entries"`
	Imported     int            `json:"imported"`
	Updated      int            `json:"updated"`
	Failed       int            `json:"failed"`
	Results      []ImportResult `json:"results"`
}

type importJob struct {
	index int
	entry models.RatingEntry
}

func (o BulkImportOpts) withDefaults() BulkImportOpts {
	if o.NumWorkers <= 0 {
		o.NumWorkers = DefaultImportWorkers
	}
	if o.NumWorkers > MaxImportWorkers {
		o.NumWorkers = MaxImportWorkers
	}
	if o.RateLimit <= 0 {
		o.RateLimit = DefaultImportRate
	}
	return o
}

// BulkImport rates many movies concurrently with rate limiting and progress tracking.
//
// Entries are checked first; invalid ones fail without touching the catalog. Valid entries are fed
// to a pool of workers that share one limiter, so the catalog sees at most opts.RateLimit searches
// per second whatever the pool size. A failed entry never stops the others. When ctx is cancelled
// the remaining entries fail with the context error, which is also returned.
func (e *RatingEngine) BulkImport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	userID string,
	entries []models.RatingEntry,
	opts BulkImportOpts,
) (*BulkImportResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: movie catalog not initialized", shared.ErrServiceUnavailable)
	}
	if userID == "" {
		return nil, shared.ErrNotAuthenticated
	}

	opts = opts.withDefaults()
	total := len(entries)
	result := &BulkImportResult{
		TotalEntries: total,
		Results:      make([]ImportResult, total),
	}

	jobs := make(chan importJob, total)
	for i, entry := range entries {
		if err := validateEntry(entry); err != nil {
			result.Results[i] = ImportResult{Entry: entry, Error: err, index: i}
			e.sendProgress(prog, invalidEntryUpdate(i+1, total, entry, err))
			continue
		}
		jobs <- importJob{index: i, entry: entry}
	}
	close(jobs)

	queued := len(jobs)
	e.sendProgress(prog, parseEntriesUpdate(queued, total))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	results := make(chan ImportResult, queued)

	var wg sync.WaitGroup
	for range min(opts.NumWorkers, max(queued, 1)) {
		wg.Add(1)
		go e.importWorker(ctx, &wg, prog, limiter, userID, total, jobs, results)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results[res.index] = res

		if res.Success {
			e.sendProgress(prog, ratingSavedUpdate(completed, queued, res))
		} else {
			e.sendProgress(prog, ratingFailedUpdate(completed, queued, res))
		}
	}

	for _, res := range result.Results {
		switch {
		case !res.Success:
			result.Failed++
		case res.Updated:
			result.Updated++
		default:
			result.Imported++
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// importWorker resolves and rates entries from the jobs channel until it is drained.
func (e *RatingEngine) importWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	prog chan<- ProgressUpdate,
	limiter *rate.Limiter,
	userID string,
	total int,
	jobs <-chan importJob,
	results chan<- ImportResult,
) {
	defer wg.Done()

	for job := range jobs {
		results <- e.importEntry(ctx, prog, limiter, userID, total, job)
	}
}

func (e *RatingEngine) importEntry(ctx context.Context, prog chan<- ProgressUpdate, limiter *rate.Limiter, userID string, total int, job importJob) ImportResult {
	res := ImportResult{Entry: job.entry, index: job.index}

	if err := limiter.Wait(ctx); err != nil {
		res.Error = err
		return res
	}

	e.sendProgress(prog, searchMovieUpdate(job.index+1, total, job.entry))
	movie, err := e.catalog.SearchBestMatch(ctx, job.entry.Title, job.entry.Year)
	if err != nil {
		res.Error = err
		return res
	}
	res.Movie = movie

	_, updated, err := e.Rate(ctx, userID, *movie, job.entry.Rating)
	if err != nil {
		res.Error = err
		return res
	}

	res.Updated = updated
	res.Success = true
	return res
}

func validateEntry(entry models.RatingEntry) error {
	if strings.TrimSpace(entry.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if !models.ValidRating(entry.Rating) {
		return fmt.Errorf("%w: got %d", shared.ErrInvalidRating, entry.Rating)
	}
	if entry.Year < 0 {
		return fmt.Errorf("%w: year %d", shared.ErrInvalidInput, entry.Year)
	}
	return nil
}
