package main

import (
	"context"

	"github.com/desertthunder/timetab/internal/seed"
	"github.com/desertthunder/timetab/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path for editing.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlain("wrote %s\n", path)
}

// SetupDatabase initializes the database, runs all pending migrations, and
// materializes the system actor used for created_by attribution.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	db, err := r.openDB()
	if err != nil {
		return err
	}

	r.logger.Info("running migrations", "path", r.config.Database.Path)
	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	actor, err := seed.EnsureSystemActor(ctx, db, r.repos, r.config)
	if err != nil {
		return err
	}
	r.logger.Info("system actor ready", "email", actor.Email, "id", actor.ID)

	version, err := shared.SchemaVersion(db)
	if err != nil {
		return err
	}

	return r.writePlain("database ready at schema version %d\n", version)
}

// DBStatus reports the applied schema version against the embedded head.
func (r *Runner) DBStatus(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	db, err := r.openDB()
	if err != nil {
		return err
	}

	current, err := shared.SchemaVersion(db)
	if err != nil {
		return err
	}
	head, err := shared.HeadVersion()
	if err != nil {
		return err
	}
	atHead, err := shared.IsAtHead(db)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"current": current,
			"head":    head,
			"at_head": atHead,
		}, cmd.Bool("pretty"))
	}

	return r.writePlain("schema version %d (head %d, at head: %v)\n", current, head, atHead)
}
