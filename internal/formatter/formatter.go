// package formatter exports a user's rated movies to various formats (CSV, Markdown, plain text, JSON)
// and parses ratings files for bulk import.
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
	"github.com/dustin/go-humanize"
)

// Supported export formats.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// Formats lists the export formats accepted by [WriteExport].
var Formats = []string{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// RatingsExport is the exported view of a user's ratings.
type RatingsExport struct {
	Owner      string              `json:"owner"`
	ExportedAt time.Time           `json:"exported_at"`
	Ratings    []models.RatedMovie `json:"ratings"`
}

// NewRatingsExport creates an export of rated stamped with the current time.
func NewRatingsExport(owner string, rated []models.RatedMovie) *RatingsExport {
	return &RatingsExport{Owner: owner, ExportedAt: time.Now(), Ratings: rated}
}

// Average returns the mean score, or 0 without ratings.
func (e *RatingsExport) Average() float64 {
	if len(e.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range e.Ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(e.Ratings))
}

func year(m models.Movie) string {
	if y, ok := m.ReleaseYear(); ok {
		return strconv.Itoa(y)
	}
	return ""
}

// ratedAgo renders when a rating was made relative to the export time, e.g. "3 days ago".
func (e *RatingsExport) ratedAgo(r models.RatedMovie) string {
	return humanize.RelTime(r.RatedAt, e.ExportedAt, "ago", "from now")
}

// ExportToCSV converts a RatingsExport to CSV format with columns: Title, Rating, Year, TMDB ID, Rated At
//
// The leading columns follow the [ParseRatingsCSV] layout, so an export can be imported again.
func ExportToCSV(export *RatingsExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Rating", "Year", "TMDB ID", "Rated At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range export.Ratings {
		record := []string{
			r.Movie.Title,
			strconv.Itoa(r.Rating),
			year(r.Movie),
			strconv.Itoa(r.Movie.ID),
			r.RatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a RatingsExport to a Markdown table.
//
// posterURL builds poster links from poster paths; with a nil posterURL the poster column is left out.
func ExportToMarkdown(export *RatingsExport, posterURL func(path string) string) ([]byte, error) {
	var buf bytes.Buffer

	title := "My Ratings"
	if export.Owner != "" {
		title = fmt.Sprintf("%s's Ratings", export.Owner)
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	buf.WriteString(fmt.Sprintf("**Movies**: %s\n", humanize.Comma(int64(len(export.Ratings)))))
	if len(export.Ratings) > 0 {
		buf.WriteString(fmt.Sprintf("**Average rating**: %s/10\n", humanize.FtoaWithDigits(export.Average(), 1)))
	}
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n\n", export.ExportedAt.Format("January 2, 2006")))

	if len(export.Ratings) == 0 {
		buf.WriteString("_No rated movies yet._\n")
		return buf.Bytes(), nil
	}

	if posterURL != nil {
		buf.WriteString("| | Title | Year | Rating | Rated |\n")
		buf.WriteString("|---|---|---|---|---|\n")
	} else {
		buf.WriteString("| Title | Year | Rating | Rated |\n")
		buf.WriteString("|---|---|---|---|\n")
	}

	for _, r := range export.Ratings {
		row := fmt.Sprintf("%s | %s | %d/10 | %s |", escapeCell(r.Movie.Title), year(r.Movie), r.Rating, export.ratedAgo(r))
		if posterURL != nil {
			poster := ""
			if r.Movie.PosterPath != "" {
				poster = fmt.Sprintf("![poster](%s)", posterURL(r.Movie.PosterPath))
			}
			buf.WriteString(fmt.Sprintf("| %s | %s\n", poster, row))
		} else {
			buf.WriteString(fmt.Sprintf("| %s\n", row))
		}
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportToText converts a RatingsExport to plain text format
func ExportToText(export *RatingsExport) ([]byte, error) {
	var buf bytes.Buffer

	if export.Owner != "" {
		buf.WriteString(fmt.Sprintf("Ratings: %s\n", export.Owner))
	}
	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(export.Ratings)))

	for i, r := range export.Ratings {
		buf.WriteString(fmt.Sprintf("%d. %s - %d/10 (%s)\n", i+1, r.Movie.Label(), r.Rating, export.ratedAgo(r)))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a RatingsExport to indented JSON.
func ExportToJSON(export *RatingsExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// Render encodes export in format. Markdown posters are linked through posterURL when it is non-nil.
func Render(export *RatingsExport, format string, posterURL func(string) string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export, posterURL)
	case FormatText:
		return ExportToText(export)
	case FormatJSON, "":
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// DefaultFilename returns the file name used when no output path is given, e.g. ratings.md.
func DefaultFilename(format string) string {
	switch format {
	case FormatCSV:
		return "ratings.csv"
	case FormatMarkdown:
		return "ratings.md"
	case FormatText:
		return "ratings.txt"
	default:
		return "ratings.json"
	}
}

// WriteExport renders export in format and writes it to path, creating parent directories.
//
// Defaults to [DefaultFilename] in the working directory. Returns the written path.
func WriteExport(export *RatingsExport, format, path string, posterURL func(string) string) (string, error) {
	if path == "" {
		path = DefaultFilename(format)
	}

	data, err := Render(export, format, posterURL)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// ParseRatingsCSV reads bulk import entries with columns title,rating[,year]. Further columns are ignored.
//
// A first row whose rating column is not a number is treated as a header and skipped. Blank
// lines are ignored. The whole file is rejected on the first malformed row, naming its line.
// Score range checks are left to the importer so one bad score does not sink the file.
func ParseRatingsCSV(r io.Reader) ([]models.RatingEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var entries []models.RatingEntry
	for first := true; ; first = false {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected title,rating[,year]", shared.ErrInvalidInput, line)
		}

		score, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			if first {
				continue
			}
			return nil, fmt.Errorf("%w: line %d: rating %q is not a number", shared.ErrInvalidInput, line, record[1])
		}

		entry := models.RatingEntry{
			Line:   line,
			Title:  strings.TrimSpace(record[0]),
			Rating: score,
		}

		if len(record) > 2 {
			if y := strings.TrimSpace(record[2]); y != "" {
				entry.Year, err = strconv.Atoi(y)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: year %q is not a number", shared.ErrInvalidInput, line, record[2])
				}
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
