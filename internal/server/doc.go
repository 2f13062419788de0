// Package server provides HTTP routing, middleware, and the password reset callback for the CLI.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [RequestLogger] and [Recoverer] are the middleware used by the CLI.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Reset Callback Handler
//
// [ResetHandler] serves /reset-password, the redirect target of password reset links.
//
// The handler verifies the token query parameter through a [TokenVerifier], renders a small HTML page,
// and sends the result through a channel.
//
// It only processes one visit to prevent replays.
//
// # Current Usage
//
// When the user runs `auth reset-password`, a [CallbackServer] starts on the configured host and port
// (localhost:3000 by default), receives the link visit, and shuts down after the token is reported
// back to the terminal, which then sets the new password.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
