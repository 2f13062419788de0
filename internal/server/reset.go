package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/flickpick/internal/models"
)

// ResetResult contains the outcome of a password reset link visit.
type ResetResult struct {
	Token  string
	UserID string
	err    error
}

func (r *ResetResult) Error() error {
	return r.err
}

// TokenVerifier checks a reset token. Implemented by auth.Service.VerifyResetToken.
type TokenVerifier func(ctx context.Context, token string) (*models.ResetToken, error)

// ResetHandler handles the password reset link sent by email.
// Implements the Handler interface for registration with a Router.
type ResetHandler struct {
	verify      TokenVerifier
	resultChan  chan ResetResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewResetHandler creates a reset link handler that checks tokens with verify.
func NewResetHandler(verify TokenVerifier) *ResetHandler {
	return &ResetHandler{
		verify:     verify,
		resultChan: make(chan ResetResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *ResetHandler) Routes() []string {
	return []string{"/reset-password"}
}

// ServeHTTP handles the reset link request.
//
// Verifies the token query parameter and sends the result through the result channel. Only the first
// visit is processed; the link cannot be replayed against the same handler.
func (h *ResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Reset link already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	token := r.URL.Query().Get("token")
	if token == "" {
		h.Send(ResetResult{err: errors.New("reset link has no token")})
		http.Error(w, "Missing reset token", http.StatusBadRequest)
		return
	}

	reset, err := h.verify(r.Context(), token)
	if err != nil {
		h.Send(ResetResult{err: fmt.Errorf("reset link rejected: %w", err)})
		renderPage(w, http.StatusBadRequest, page{
			Title:   "Reset Link Invalid",
			Message: "This reset link is invalid or has expired. Request a new one from the terminal.",
			Failed:  true,
		})
		return
	}

	h.Send(ResetResult{Token: reset.Token, UserID: reset.UserID})
	renderPage(w, http.StatusOK, page{
		Title:   "✓ Reset Link Verified",
		Message: "You can close this window and choose a new password in the terminal.",
	})
}

// Send sends the reset result through the channel (only once).
func (h *ResetHandler) Send(result ResetResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving the link visit.
//
// Channel will receive exactly one result and then be closed.
func (h *ResetHandler) Result() <-chan ResetResult {
	return h.resultChan
}

type page struct {
	Title   string
	Message string
	Failed  bool
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #F5E6D3; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: {{if .Failed}}#B00020{{else}}#7B1F2F{{end}}; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pageTemplate.Execute(w, p)
}
