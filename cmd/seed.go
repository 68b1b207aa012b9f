package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/timetab/internal/formatter"
	"github.com/desertthunder/timetab/internal/seed"
	"github.com/desertthunder/timetab/internal/shared"
	"github.com/urfave/cli/v3"
)

// SeedPlan computes the seed action set without writing a single row.
func (r *Runner) SeedPlan(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	baseline, err := r.loadBaseline(cmd.String("baseline"))
	if err != nil {
		return err
	}

	seeder, err := r.seeder()
	if err != nil {
		return err
	}

	summary, err := seeder.Plan(ctx, baseline, seed.Options{
		Force:   cmd.Bool("force"),
		Upgrade: cmd.Bool("upgrade"),
	})
	if err != nil {
		return err
	}

	return r.writeSummary(summary, summaryFormat(cmd), cmd.Bool("pretty"))
}

// SeedApply executes the seed plan inside one transaction.
func (r *Runner) SeedApply(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	baseline, err := r.loadBaseline(cmd.String("baseline"))
	if err != nil {
		return err
	}

	seeder, err := r.seeder()
	if err != nil {
		return err
	}

	summary, err := seeder.Apply(ctx, baseline, seed.Options{
		Force:   cmd.Bool("force"),
		Upgrade: cmd.Bool("upgrade"),
	})
	if err != nil {
		return err
	}

	return r.writeSummary(summary, summaryFormat(cmd), cmd.Bool("pretty"))
}

// summaryFormat resolves the output format; --json is shorthand for --format json.
func summaryFormat(cmd *cli.Command) string {
	if format := cmd.String("format"); format != "" {
		return format
	}
	if cmd.Bool("json") {
		return "json"
	}
	return "text"
}

func (r *Runner) writeSummary(summary *seed.Summary, format string, pretty bool) error {
	switch format {
	case "json":
		return r.writeJSON(summary, pretty)
	case "csv":
		data, err := formatter.SummaryToCSV(summary)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case "markdown":
		return r.writeBytes(formatter.SummaryToMarkdown(summary))
	case "text":
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	if err := r.writePlain("inserted=%d updated=%d skipped=%d\n", summary.Inserted, summary.Updated, summary.Skipped); err != nil {
		return err
	}
	for _, item := range summary.Items {
		if err := r.writePlain("  %-6s %s\n", item.Action, item.Key); err != nil {
			return err
		}
	}
	return nil
}
