// TMDB API implementation of [MovieCatalog]
//
// Response types based on https://developer.themoviedb.org/reference/search-movie
package services

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"
	tmdbWebURL       = "https://www.themoviedb.org/movie"

	// DefaultPosterSize is the poster width used when none is requested.
	DefaultPosterSize = "w342"
)

// TMDBSearchResponse is one page of /search/movie results.
type TMDBSearchResponse struct {
	Page         int            `json:"page"`
	Results      []models.Movie `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// TMDBService implements [MovieCatalog] against the TMDB v3 API.
//
// A v3 api key is sent as the api_key query parameter. When a v4 read access token is configured instead,
// requests go through an [oauth2] static token client and carry no api_key.
type TMDBService struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	includeAdult bool
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// TMDBOption configures a [TMDBService].
type TMDBOption func(*TMDBService)

// WithRateLimit caps outbound requests per second. Zero or less disables limiting.
func WithRateLimit(rps float64) TMDBOption {
	return func(s *TMDBService) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
}

// WithLanguage sets the ISO 639-1 language sent with searches (e.g. "en-US").
func WithLanguage(lang string) TMDBOption {
	return func(s *TMDBService) { s.language = lang }
}

// WithIncludeAdult includes adult titles in search results.
func WithIncludeAdult(include bool) TMDBOption {
	return func(s *TMDBService) { s.includeAdult = include }
}

// NewTMDBService creates a TMDB client from credentials (keys api_key, access_token, base_url, image_base_url).
//
// client is the transport used for requests and defaults to [http.DefaultClient].
func NewTMDBService(credentials map[string]string, client *http.Client, opts ...TMDBOption) (*TMDBService, error) {
	apiKey := credentials["api_key"]
	accessToken := credentials["access_token"]
	if apiKey == "" && accessToken == "" {
		return nil, fmt.Errorf("%w: tmdb api_key or access_token is required", shared.ErrMissingCredentials)
	}

	if client == nil {
		client = http.DefaultClient
	}

	if accessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))
		apiKey = ""
	}

	s := &TMDBService{
		baseURL:      strings.TrimRight(cmp.Or(credentials["base_url"], tmdbBaseURL), "/"),
		imageBaseURL: strings.TrimRight(cmp.Or(credentials["image_base_url"], tmdbImageBaseURL), "/"),
		apiKey:       apiKey,
		httpClient:   client,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Name returns the provider name.
func (s *TMDBService) Name() string {
	return "TMDB"
}

// SearchMovies queries /search/movie for query and returns the first page of results.
//
// A blank query returns no results without a request.
func (s *TMDBService) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	return s.search(ctx, query, 0)
}

// SearchBestMatch returns the first result for title, narrowed by release year when year > 0.
//
// If the year filter finds nothing the search is retried without it.
func (s *TMDBService) SearchBestMatch(ctx context.Context, title string, year int) (*models.Movie, error) {
	movies, err := s.search(ctx, title, year)
	if err != nil {
		return nil, err
	}

	if len(movies) == 0 && year > 0 {
		if movies, err = s.search(ctx, title, 0); err != nil {
			return nil, err
		}
	}

	if len(movies) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrMovieNotFound, title)
	}

	return &movies[0], nil
}

// GetMovie fetches /movie/{id}.
func (s *TMDBService) GetMovie(ctx context.Context, id int) (*models.Movie, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: movie id must be positive", shared.ErrInvalidArgument)
	}

	var movie models.Movie
	if err := s.doRequest(ctx, "/movie/"+strconv.Itoa(id), nil, &movie); err != nil {
		return nil, err
	}

	return &movie, nil
}

// PosterURL builds the image URL of a poster path at size (e.g. "w185"). Empty paths yield "".
func (s *TMDBService) PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = DefaultPosterSize
	}
	return s.imageBaseURL + "/" + size + "/" + strings.TrimPrefix(path, "/")
}

// MovieURL returns the themoviedb.org page of a movie.
func (s *TMDBService) MovieURL(id int) string {
	return fmt.Sprintf("%s/%d", tmdbWebURL, id)
}

func (s *TMDBService) search(ctx context.Context, query string, year int) ([]models.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Movie{}, nil
	}

	params := url.Values{}
	params.Set("query", query)
	if s.language != "" {
		params.Set("language", s.language)
	}
	if s.includeAdult {
		params.Set("include_adult", "true")
	}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var response TMDBSearchResponse
	if err := s.doRequest(ctx, "/search/movie", params, &response); err != nil {
		return nil, err
	}

	if response.Results == nil {
		return []models.Movie{}, nil
	}

	return response.Results, nil
}

// doRequest performs a GET against the TMDB API and decodes the JSON body into result.
func (s *TMDBService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	if params == nil {
		params = url.Values{}
	}
	if s.apiKey != "" {
		params.Set("api_key", s.apiKey)
	}

	apiURL := s.baseURL + endpoint
	if encoded := params.Encode(); encoded != "" {
		apiURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, endpoint)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: tmdb rejected credentials (status 401)", shared.ErrAPIRequest)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: tmdb status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
