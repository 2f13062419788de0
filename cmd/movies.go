package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/flickpick/internal/formatter"
	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/services"
	"github.com/desertthunder/flickpick/internal/shared"
	"github.com/desertthunder/flickpick/internal/tasks"
	"github.com/urfave/cli/v3"
)

// posterLinker is implemented by catalogs that can build poster image URLs.
type posterLinker interface {
	PosterURL(path, size string) string
}

// MoviesSearch searches TMDB and prints the matches.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	r.logger.Info("searching movies", "query", query, "provider", r.catalog.Name())

	movies, err := r.catalog.SearchMovies(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(movies) {
		movies = movies[:limit]
	}

	if useJSON {
		return r.writeJSON(movies, pretty)
	}

	if len(movies) == 0 {
		return r.writePlain("No results found\n")
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q", query))
	for i, movie := range movies {
		r.writePlain("%2d. %s [id %d]\n", i+1, movie.Label(), movie.ID)
	}
	return r.writePlainln("Rate one with: flickpick movies add --id <id> --rating <1-10>")
}

// MoviesAdd rates a movie by TMDB id for the signed-in user.
func (r *Runner) MoviesAdd(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int("id")
	score := cmd.Int("rating")

	if !models.ValidRating(score) {
		return shared.ErrInvalidRating
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	user, err := r.currentUser(ctx)
	if err != nil {
		return err
	}

	movie, err := r.catalog.GetMovie(ctx, id)
	if err != nil {
		return err
	}

	rating, updated, err := r.engine.Rate(ctx, user.ID(), *movie, score)
	if err != nil {
		return err
	}

	verb := "Rated"
	if updated {
		verb = "Updated"
	}
	return r.writePlain("✓ %s %s: %d/10\n", verb, movie.Label(), rating.Score())
}

// MoviesRemove deletes the signed-in user's rating of a movie.
func (r *Runner) MoviesRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int("id")

	user, err := r.currentUser(ctx)
	if err != nil {
		return err
	}

	rating, err := r.engine.Remove(ctx, user.ID(), id)
	if err != nil {
		return err
	}

	r.logger.Info("removed rating", "movie", id)
	return r.writePlain("✓ Removed your rating of %s\n", rating.MovieTitle())
}

// MoviesList prints the signed-in user's ratings, newest first.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	user, err := r.currentUser(ctx)
	if err != nil {
		return err
	}

	rated, err := r.engine.Ratings(ctx, user.ID())
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(rated, true)
	}

	text, err := formatter.ExportToText(formatter.NewRatingsExport(r.displayName(ctx, user), rated))
	if err != nil {
		return err
	}
	_, err = r.output.Write(text)
	return err
}

// MoviesExport renders the signed-in user's ratings to stdout or a file.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	user, err := r.currentUser(ctx)
	if err != nil {
		return err
	}

	rated, err := r.engine.Ratings(ctx, user.ID())
	if err != nil {
		return err
	}

	export := formatter.NewRatingsExport(r.displayName(ctx, user), rated)

	if output == "" {
		data, err := formatter.Render(export, format, r.posterURL())
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	path, err := formatter.WriteExport(export, format, output, r.posterURL())
	if err != nil {
		return err
	}

	r.logger.Info("exported ratings", "path", path, "format", format, "count", len(rated))
	return r.writePlain("✓ Exported %d ratings to %s\n", len(rated), path)
}

func (r *Runner) posterURL() func(string) string {
	linker, ok := r.catalog.(posterLinker)
	if !ok {
		return nil
	}
	return func(path string) string { return linker.PosterURL(path, services.DefaultPosterSize) }
}

// MoviesImport rates every movie of a CSV file, resolving titles against TMDB with a worker pool.
func (r *Runner) MoviesImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	useJSON := cmd.Bool("json")

	if err := r.requireCatalog(); err != nil {
		return err
	}

	user, err := r.currentUser(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	entries, err := formatter.ParseRatingsCSV(f)
	if err != nil {
		return err
	}

	r.logger.Info("importing ratings", "file", path, "entries", len(entries))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if useJSON {
				r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
				continue
			}
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkImport(ctx, progressCh, user.ID(), entries, tasks.BulkImportOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	r.writePlainln("")
	r.writePlainHeader("Import Summary")
	r.writePlain("Entries:  %d\n", result.TotalEntries)
	r.writePlain("Imported: %d\n", result.Imported)
	r.writePlain("Updated:  %d\n", result.Updated)
	r.writePlain("Failed:   %d\n", result.Failed)

	if result.Failed > 0 {
		r.writePlainln("Failed entries:")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - line %d: %s (%v)\n", res.Entry.Line, res.Entry.Title, res.Error)
			}
		}
	}

	return nil
}

// MoviesOpen opens the TMDB page of a movie in the default browser.
func (r *Runner) MoviesOpen(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int("id")
	if id <= 0 {
		return fmt.Errorf("%w: --id must be positive", shared.ErrInvalidArgument)
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	url := r.catalog.MovieURL(id)
	r.logger.Info("opening movie page", "url", url)

	if err := r.openURL(url); err != nil {
		r.writePlain("Open this page in your browser:\n%s\n", url)
		return err
	}
	return r.writePlain("✓ Opened %s\n", url)
}
