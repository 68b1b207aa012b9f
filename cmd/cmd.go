// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example configuration file for editing",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database, run migrations, and materialize the system actor",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// dbCommand handles schema inspection.
func dbCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Database schema operations",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Report applied schema version against head",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.DBStatus,
			},
		},
	}
}

// seedCommand handles baseline seeding.
func seedCommand(r *Runner) *cli.Command {
	seedFlags := []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:  "baseline",
			Usage: "Path to a baseline TOML file (default: embedded baseline)",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Proceed even against a production environment",
		},
		&cli.BoolFlag{
			Name:  "upgrade",
			Usage: "Run pending migrations inline before seeding",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format: text, json, csv, or markdown",
		},
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON (shorthand for --format json)"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
	}

	return &cli.Command{
		Name:  "seed",
		Usage: "Idempotent baseline seeding",
		Commands: []*cli.Command{
			{
				Name:   "plan",
				Usage:  "Compute the seed action set without writing anything",
				Flags:  seedFlags,
				Action: r.SeedPlan,
			},
			{
				Name:   "apply",
				Usage:  "Apply the seed plan in a single transaction",
				Flags:  seedFlags,
				Action: r.SeedApply,
			},
		},
	}
}

// orgCommand handles organisation reads.
func orgCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "org",
		Usage: "Organisation operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List organisations with sorting and pagination",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort as field or field:direction (e.g. name:desc)",
					},
					&cli.IntFlag{Name: "page", Usage: "Page number (1-based)", Value: 1},
					&cli.IntFlag{Name: "per-page", Usage: "Rows per page", Value: 20},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text, json, or csv",
					},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON (shorthand for --format json)"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.OrgList,
			},
		},
	}
}

// roomCommand handles room claim operations.
func roomCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "room",
		Usage: "Room operations",
		Commands: []*cli.Command{
			{
				Name:  "claim",
				Usage: "Acquire the exclusive claim on a room",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "room-id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "actor",
						Usage:    "Email of the claiming actor",
						Required: true,
					},
				},
				Action: r.RoomClaim,
			},
			{
				Name:  "release",
				Usage: "Release a room's claim",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "room-id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.RoomRelease,
			},
		},
	}
}
