package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/flickpick/internal/shared"
	"github.com/desertthunder/flickpick/internal/ui"
	"github.com/desertthunder/flickpick/internal/ui/moviesearch"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard for the signed-in user.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering. Services opened from here on log there too.
	fileLogger, logFile, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()
	r.SetLogger(fileLogger)

	user, err := r.currentUser(ctx)
	if err != nil {
		return err
	}

	account := ui.Account{UserID: user.ID(), Name: r.displayName(ctx, user)}
	model := ui.NewModel(ctx, r.catalog, r.engine, account, shared.WithLogger(fileLogger, "component", "tui"),
		moviesearch.WithDebounce(r.config.Search.Debounce()),
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
