// # Accounts
//
// [Service] stores users, profiles, sessions and password reset tokens in the application database
// through the repositories package. Passwords are hashed with bcrypt.
//
// # Sessions
//
// Signing in creates a session row and writes its token to a [SessionStore] file (by default under
// $XDG_STATE_HOME/flickpick). Every later command reads the token back and looks the session up;
// unknown and expired tokens are discarded, which signs the user out.
//
// # Password Resets
//
// [Service.ResetPasswordForEmail] appends a single-use token to a redirect URL and hands the link to
// a [Mailer]. The CLI points the redirect at the local callback server in package server, which
// verifies the token and reports it back so the new password can be set with [Service.UpdatePassword].
package auth
