package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/timetab/internal/formatter"
	"github.com/desertthunder/timetab/internal/repositories"
	"github.com/desertthunder/timetab/internal/shared"
	"github.com/urfave/cli/v3"
)

// OrgList pages through organisations with an allow-listed sort order.
func (r *Runner) OrgList(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	db, err := r.openDB()
	if err != nil {
		return err
	}

	sort, err := repositories.ParseSortSpec(cmd.String("sort"))
	if err != nil {
		return err
	}

	orgs := r.repos.Organisations
	query := orgs.Select()
	if err := orgs.ApplySorting(query, sort); err != nil {
		return err
	}

	page, err := orgs.Paginate(ctx, db, query, int(cmd.Int("page")), int(cmd.Int("per-page")))
	if err != nil {
		return err
	}

	switch format := summaryFormat(cmd); format {
	case "json":
		return r.writeJSON(page, cmd.Bool("pretty"))
	case "csv":
		data, err := formatter.OrganisationsToCSV(page.Items)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case "text":
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	if err := r.writePlain("page %d (%d of %d total)\n", page.Page, len(page.Items), page.Total); err != nil {
		return err
	}
	for _, org := range page.Items {
		if err := r.writePlain("  #%-4d %-30s %s\n", org.Sequence, org.Name, org.Slug); err != nil {
			return err
		}
	}
	return nil
}
