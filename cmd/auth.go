package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/server"
	"github.com/desertthunder/flickpick/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates an account with a username.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	email := cmd.String("email")
	username := cmd.String("username")

	user, err := r.auth.Register(ctx, email, cmd.String("password"), username)
	if err != nil {
		return err
	}

	r.logger.Info("registered account", "user", user.ID(), "username", username)
	r.writePlain("✓ Registered %s as %s\n", user.Email(), username)
	return r.writePlain("Sign in with: flickpick auth login --email %s --password ...\n", user.Email())
}

// AuthLogin signs in and stores the session token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	email := cmd.String("email")
	session, err := r.auth.SignInWithPassword(ctx, email, cmd.String("password"), cmd.Bool("keep"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ Signed in as %s (session expires %s)\n", email, humanize.Time(session.ExpiresAt))
}

// AuthLogout ends the current session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	if err := r.auth.SignOut(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the signed-in user, if any.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	session, err := r.auth.GetSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return r.writePlain("✗ Not signed in\n")
	}

	user, err := r.auth.GetUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return r.writePlain("✗ Not signed in\n")
	}

	r.writePlain("✓ Signed in as %s\n", user.Email())
	if profile, err := r.auth.Profile(ctx, user.ID()); err == nil {
		r.writePlain("Username: %s\n", profile.Username)
	}
	return r.writePlain("Session expires %s\n", humanize.Time(session.ExpiresAt))
}

// AuthResetPassword runs the password reset flow.
//
// The reset link points at a local callback server. The command waits for the link to be opened, then sets the new
// password. With --no-wait the link is only sent; --token completes a reset from a link opened earlier.
func (r *Runner) AuthResetPassword(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	if token := cmd.String("token"); token != "" {
		return r.completeReset(ctx, token, cmd.String("new-password"))
	}

	email := cmd.String("email")
	if email == "" {
		return fmt.Errorf("%w: --email is required", shared.ErrMissingArgument)
	}

	if cmd.Bool("no-wait") {
		redirect := "http://" + r.config.Server.Addr() + "/reset-password"
		if err := r.auth.ResetPasswordForEmail(ctx, email, redirect); err != nil {
			return err
		}
		r.writePlain("✓ If %s has an account, a reset link is on its way\n", email)
		return r.writePlain("Finish with: flickpick auth reset-password --token <token from the link>\n")
	}

	handler := server.NewResetHandler(r.auth.VerifyResetToken)
	router := server.NewBasicRouter()
	router.Use(server.Recoverer(r.logger), server.RequestLogger(shared.WithLogger(r.logger, "component", "server")))
	router.Handler(handler)

	srv, err := server.Listen(r.config.Server.Addr(), router)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := r.auth.ResetPasswordForEmail(ctx, email, srv.URL("/reset-password")); err != nil {
		return err
	}

	r.writePlain("✓ If %s has an account, a reset link is on its way\n", email)
	r.writePlain("Waiting for the link to be opened (%s)...\n", r.resetTimeout)

	result, err := r.waitForReset(ctx, handler, srv)
	if err != nil {
		return err
	}

	r.logger.Info("reset link verified", "user", result.UserID)
	return r.completeReset(ctx, result.Token, cmd.String("new-password"))
}

func (r *Runner) waitForReset(ctx context.Context, handler *server.ResetHandler, srv *server.CallbackServer) (server.ResetResult, error) {
	timer := time.NewTimer(r.resetTimeout)
	defer timer.Stop()

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return result, err
		}
		return result, nil
	case err := <-srv.Errors():
		return server.ResetResult{}, fmt.Errorf("callback server failed: %w", err)
	case <-timer.C:
		return server.ResetResult{}, fmt.Errorf("%w: reset link was not opened within %s", shared.ErrTimeout, r.resetTimeout)
	case <-ctx.Done():
		return server.ResetResult{}, ctx.Err()
	}
}

// completeReset sets the new password, prompting for it when it was not given as a flag.
func (r *Runner) completeReset(ctx context.Context, token, password string) error {
	if password == "" {
		var err error
		if password, err = r.prompt("New password: "); err != nil {
			return err
		}
	}

	if err := r.auth.UpdatePassword(ctx, token, password); err != nil {
		return err
	}

	return r.writePlain("✓ Password updated. Sign in again with: flickpick auth login\n")
}

// prompt writes label and reads one line from the runner input.
func (r *Runner) prompt(label string) (string, error) {
	r.writePlain("%s", label)

	line, err := bufio.NewReader(r.input).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: no input", shared.ErrMissingArgument)
	}
	return line, nil
}

// currentUser returns the signed-in user or explains how to sign in.
func (r *Runner) currentUser(ctx context.Context) (*models.User, error) {
	if err := r.open(); err != nil {
		return nil, err
	}

	user, err := r.auth.RequireUser(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return nil, fmt.Errorf("%w: run `flickpick auth login` first", err)
	}
	return user, err
}

// displayName is the username of user, or the email when no profile exists.
func (r *Runner) displayName(ctx context.Context, user *models.User) string {
	if profile, err := r.auth.Profile(ctx, user.ID()); err == nil && profile.Username != "" {
		return profile.Username
	}
	return user.Email()
}
