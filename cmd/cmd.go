// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/flickpick/internal/formatter"
	"github.com/desertthunder/flickpick/internal/tasks"
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config.toml if missing, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the latest migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand handles account operations
func authCommand(r *Runner) *cli.Command {
	emailFlag := &cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account and session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account with a public username",
				Flags: []cli.Flag{
					emailFlag,
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password (at least 6 characters)", Required: true},
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Public username", Required: true},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					emailFlag,
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password", Required: true},
					&cli.BoolFlag{Name: "keep", Aliases: []string{"k"}, Usage: "Keep me logged in"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "End the current session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show who is signed in",
				Action: r.AuthStatus,
			},
			{
				Name:  "reset-password",
				Usage: "Email a password reset link, wait for it to be opened and set a new password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"},
					&cli.StringFlag{Name: "new-password", Usage: "New password (prompted when omitted)"},
					&cli.StringFlag{Name: "token", Usage: "Complete a reset with the token from a link instead of waiting"},
					&cli.BoolFlag{Name: "no-wait", Usage: "Send the link and exit"},
				},
				Action: r.AuthResetPassword,
			},
		},
	}
}

// moviesCommand handles searching and rating movies
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Search, rate, list & export movies",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search TMDB for movies",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to show",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.MoviesSearch,
			},
			{
				Name:  "add",
				Usage: "Rate a movie by TMDB id",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "TMDB movie id",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "rating",
						Aliases:  []string{"r"},
						Usage:    "Rating from 1 to 10",
						Required: true,
					},
				},
				Action: r.MoviesAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove your rating of a movie",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "TMDB movie id",
						Required: true,
					},
				},
				Action: r.MoviesRemove,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your rated movies",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:  "export",
				Usage: "Export your ratings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (" + strings.Join(formatter.Formats, ", ") + ")",
						Value:   formatter.FormatCSV,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file or directory (stdout when omitted)",
					},
				},
				Action: r.MoviesExport,
			},
			{
				Name:  "import",
				Usage: "Rate movies in bulk from a CSV file (title,rating[,year])",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "CSV file to import",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent TMDB lookups",
						Value: tasks.DefaultImportWorkers,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "TMDB lookups per second",
						Value: tasks.DefaultImportRate,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the import result as JSON",
					},
				},
				Action: r.MoviesImport,
			},
			{
				Name:  "open",
				Usage: "Open a movie's TMDB page in the browser",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "TMDB movie id",
						Required: true,
					},
				},
				Action: r.MoviesOpen,
			},
		},
	}
}

// apiCommand handles direct TMDB API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the TMDB API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to TMDB (e.g. /movie/27205), prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive search & rating dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the dashboard owns the terminal",
				Value: "./tmp/flickpick-tui.log",
			},
		},
		Action: r.TUI,
	}
}
