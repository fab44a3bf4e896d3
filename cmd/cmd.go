// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is the shared --config flag carried by every command that
// touches configuration or the database.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func profileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "profile",
		Aliases:  []string{"p"},
		Usage:    "Profile ID or username",
		Required: true,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
		},
	}
}

// serveCommand starts the public profile API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the profile API server",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}

// spotifyCommand handles Spotify operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify artist operations",
		Commands: []*cli.Command{
			{
				Name:  "auth",
				Usage: "Authenticate with Spotify using OAuth2",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for token.json (default: ~/.tonelink/token.json)",
					},
				},
				Action: r.SpotifyAuth,
			},
			{
				Name:  "search",
				Usage: "Search Spotify for artists",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of artists to return",
						Value: 10,
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
				Action: r.SpotifySearch,
			},
		},
	}
}

// connectCommand launches the interactive artist-connect dialog.
func connectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "connect",
		Usage:  "Connect a Spotify artist to a profile interactively",
		Flags:  []cli.Flag{configFlag(), profileFlag()},
		Action: r.Connect,
	}
}

// profilesCommand handles local profile management.
func profilesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "Manage profiles",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a new profile",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "username",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "display-name",
						Usage: "Display name (defaults to the username)",
					},
					&cli.StringFlag{
						Name:  "brand-color",
						Usage: "Brand color as #rrggbb",
					},
					&cli.StringFlag{
						Name:  "avatar",
						Usage: "Avatar image URL",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Email for a Gravatar fallback avatar",
					},
				},
				Action: r.ProfilesCreate,
			},
			{
				Name:  "list",
				Usage: "List profiles",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.ProfilesList,
			},
		},
	}
}

// linksCommand handles link management for a profile.
func linksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "links",
		Usage: "Manage a profile's links",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List links in display order",
				Flags: []cli.Flag{
					configFlag(),
					profileFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.LinksList,
			},
			{
				Name:  "add",
				Usage: "Add a link at the end of the list",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "platform",
					},
					&cli.StringArg{
						Name: "url",
					},
				},
				Flags:  []cli.Flag{configFlag(), profileFlag()},
				Action: r.LinksAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a link by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.LinksRemove,
			},
			{
				Name:  "reorder",
				Usage: "Persist a new display order",
				Flags: []cli.Flag{
					configFlag(),
					profileFlag(),
					&cli.StringFlag{
						Name:     "order",
						Usage:    "Comma-separated link IDs in the desired order",
						Required: true,
					},
				},
				Action: r.LinksReorder,
			},
		},
	}
}

// refreshCommand pulls fresh follower counts from Spotify.
func refreshCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Refresh cached follower counts for a profile's links",
		Flags: []cli.Flag{
			configFlag(),
			profileFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Refresh,
	}
}

// auditCommand probes link destinations for dead URLs.
func auditCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Probe a profile's links and flag dead destinations",
		Flags: []cli.Flag{
			configFlag(),
			profileFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Audit,
	}
}

// exportCommand writes profiles and their links to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export profiles with their links",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringSliceFlag{
				Name:    "profile",
				Aliases: []string{"p"},
				Usage:   "Profile IDs to export (default: all profiles)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 5,
			},
		},
		Action: r.Export,
	}
}

// billingCommand reports subscription state from the hosted billing API.
func billingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "billing",
		Usage: "Show a profile's subscription status",
		Flags: []cli.Flag{
			configFlag(),
			profileFlag(),
			&cli.BoolFlag{
				Name:  "portal",
				Usage: "Also fetch the customer portal URL",
			},
			&cli.StringFlag{
				Name:  "checkout",
				Usage: "Fetch a checkout URL for the given plan",
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
		Action: r.Billing,
	}
}
