// package server contains the router, middleware & handlers of the local password reset callback server
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, panic recovery, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers of the callback server.
// Implementations handle specific endpoints (password reset links).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// CallbackServer is a short-lived HTTP server that waits for a link from the browser.
type CallbackServer struct {
	srv  *http.Server
	addr net.Addr
	errs chan error
}

// Listen binds addr and serves handler in the background. Binding happens before Listen returns,
// so a port already in use is reported here rather than later. Use port 0 for any free port.
func Listen(addr string, handler http.Handler) (*CallbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	c := &CallbackServer{
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		addr: ln.Addr(),
		errs: make(chan error, 1),
	}

	go func() {
		if err := c.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.errs <- err
		}
	}()

	return c, nil
}

// Addr returns the bound host:port.
func (c *CallbackServer) Addr() string { return c.addr.String() }

// URL returns the http URL of path on this server.
func (c *CallbackServer) URL(path string) string { return "http://" + c.Addr() + path }

// Errors delivers a serve failure, if one happens.
func (c *CallbackServer) Errors() <-chan error { return c.errs }

// Shutdown stops the server, waiting for in-flight requests until ctx is done.
func (c *CallbackServer) Shutdown(ctx context.Context) error {
	return c.srv.Shutdown(ctx)
}
