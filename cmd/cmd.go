// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the database and configuration
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// generateCommand runs the recommendation batch driver
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate recommendations for one or all users",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user-id",
				Aliases: []string{"u"},
				Usage:   "Generate for a single user",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum recommendations per user",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Generate without saving",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Users processed per second (0 = unthrottled)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall run timeout (e.g. 2m)",
			},
		},
		Action: r.Generate,
	}
}

// recommendationsCommand handles per-user recommendation queries and actions
func recommendationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommendations",
		Aliases: []string{"recs"},
		Usage:   "Browse and act on recommendations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List active recommendations, best score first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Usage:    "User to list recommendations for",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum recommendations to show",
					},
					&cli.StringFlag{
						Name:  "reason",
						Usage: "Filter by reason (genre, artist, trending)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "mark-viewed",
						Usage: "Mark listed recommendations as viewed",
					},
				},
				Action: r.RecommendationsList,
			},
			{
				Name:   "like",
				Usage:  "Mark a recommendation as liked",
				Flags:  markFlags(),
				Action: r.RecommendationsLike,
			},
			{
				Name:   "dismiss",
				Usage:  "Dismiss a recommendation",
				Flags:  markFlags(),
				Action: r.RecommendationsDismiss,
			},
			{
				Name:  "count",
				Usage: "Count unviewed recommendations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Usage:    "User to count recommendations for",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RecommendationsCount,
			},
			{
				Name:  "export",
				Usage: "Export recommendations to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Usage:    "User to export recommendations for",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum recommendations to export",
					},
				},
				Action: r.RecommendationsExport,
			},
		},
	}
}

// markFlags returns the shared flag set for like/dismiss actions
func markFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "Recommendation ID",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "user-id",
			Aliases:  []string{"u"},
			Usage:    "Owner of the recommendation",
			Required: true,
		},
	}
}

// catalogCommand handles track catalog operations
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Manage the track catalog",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Load users and tracks from a JSON seed file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to seed file",
						Required: true,
					},
				},
				Action: r.CatalogImport,
			},
			{
				Name:  "list",
				Usage: "List tracks in the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Filter by genre",
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Filter by artist",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CatalogList,
			},
		},
	}
}

// cleanupCommand sweeps old recommendations
func cleanupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Delete recommendations past the retention window",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "days",
				Usage: "Retention window in days",
			},
		},
		Action: r.Cleanup,
	}
}

// tuiCommand launches the interactive browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse recommendations interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user-id",
				Aliases:  []string{"u"},
				Usage:    "User to browse recommendations for",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum recommendations to load",
			},
		},
		Action: r.TUI,
	}
}
