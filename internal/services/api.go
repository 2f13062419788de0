// Raw TMDB requests for the api debug command
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// APIService makes raw, authenticated GET requests against the TMDB API and returns the response untouched.
type APIService struct {
	baseURL     string
	apiKey      string
	accessToken string
	httpClient  *http.Client
}

// NewAPIService creates a raw TMDB client from the same credentials map as [NewTMDBService].
func NewAPIService(credentials map[string]string, client *http.Client) *APIService {
	baseURL := strings.TrimRight(credentials["base_url"], "/")
	if baseURL == "" {
		baseURL = tmdbBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:     baseURL,
		apiKey:      credentials["api_key"],
		accessToken: credentials["access_token"],
		httpClient:  client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to path (e.g. "/movie/27205?language=fr-FR") and returns the raw response.
//
// Non-2xx responses are returned, not treated as errors.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	fullURL, err := a.resolve(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if a.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+a.accessToken)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// resolve joins path onto the base URL and adds api_key when no bearer token is configured.
func (a *APIService) resolve(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u, err := url.Parse(a.baseURL + path)
	if err != nil {
		return "", err
	}

	if a.accessToken == "" && a.apiKey != "" {
		q := u.Query()
		q.Set("api_key", a.apiKey)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
