// package formatter renders seed summaries and entity listings to
// machine-readable (CSV) and human-readable (Markdown, plain text) formats.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/timetab/internal/models"
	"github.com/desertthunder/timetab/internal/seed"
)

// SummaryToCSV converts a seed summary to CSV with columns: Action, Kind, Key, Changes.
func SummaryToCSV(summary *seed.Summary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Action", "Kind", "Key", "Changes"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range summary.Items {
		record := []string{string(item.Action), item.Kind, item.Key, formatDiff(item.Diff)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// SummaryToMarkdown converts a seed summary to a Markdown table with a
// counters line above it.
func SummaryToMarkdown(summary *seed.Summary) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "**inserted** %d · **updated** %d · **skipped** %d\n\n",
		summary.Inserted, summary.Updated, summary.Skipped)
	buf.WriteString("| Action | Kind | Key | Changes |\n")
	buf.WriteString("|--------|------|-----|---------|\n")

	for _, item := range summary.Items {
		fmt.Fprintf(&buf, "| %s | %s | %s | %s |\n",
			item.Action, item.Kind, escapePipes(item.Key), escapePipes(formatDiff(item.Diff)))
	}

	return buf.Bytes()
}

// OrganisationsToCSV converts a listing page to CSV with columns: Sequence, Name, Slug, CreatedAt.
func OrganisationsToCSV(orgs []*models.Organisation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Sequence", "Name", "Slug", "CreatedAt"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, org := range orgs {
		record := []string{
			fmt.Sprintf("%d", org.Sequence),
			org.Name,
			org.Slug,
			org.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// formatDiff renders a diff map as "field: from -> to" pairs in field order.
func formatDiff(diff map[string]seed.FieldChange) string {
	if len(diff) == 0 {
		return ""
	}

	fields := make([]string, 0, len(diff))
	for field := range diff {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		change := diff[field]
		if change.From == "" {
			parts = append(parts, fmt.Sprintf("%s: %s", field, change.To))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s -> %s", field, change.From, change.To))
	}

	return strings.Join(parts, "; ")
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
