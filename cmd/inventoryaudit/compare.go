package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/inventoryaudit/internal/audit"
	"github.com/nao1215/inventoryaudit/internal/config"
	"github.com/nao1215/inventoryaudit/internal/database"
	"github.com/nao1215/inventoryaudit/internal/model"
	"github.com/nao1215/inventoryaudit/internal/report"
)

const (
	defaultListLimit = 20
	listTimeLayout   = "2006-01-02 15:04:05"
	sinceLayout      = "2006-01-02"
)

// NewCompareCmd creates the compare command.
// This command compares audit runs stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare audit runs from the history database",
		Long: `Compare displays how the audit results changed between two runs.

It shows:
- The change in candidates for addition, candidates for removal and scan errors
- Agencies that appeared in or disappeared from inventory_stats.csv
- Per-agency counters that moved

Every successful 'inventoryaudit run', 'stats' or 'reports' records a run
unless --no-history is given. At least two runs are needed.

Examples:
  # Compare the latest two runs
  inventoryaudit compare

  # List stored runs
  inventoryaudit compare --list

  # Compare a specific run with the latest other run
  inventoryaudit compare --with-run-id 0b9e6a1e-3c1f-4f7e-9a55-2f1f7f0d6c11

  # Compare the latest run with the first run since a date
  inventoryaudit compare --since 2025-01-01

  # Output the comparison as markdown
  inventoryaudit compare --markdown`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false, "List stored runs")
	cmd.Flags().Int("limit", defaultListLimit, "Number of runs listed by --list (0 lists all)")

	// Comparison target flags
	cmd.Flags().StringP("with-run-id", "i", "",
		"Compare this run with the latest other run (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare the latest run with the first run since this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false, "Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false, "Output comparison result in Markdown format")

	cmd.Flags().String("history-dir", "", "History database directory (default: XDG data directory)")

	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	cmd.MarkFlagsMutuallyExclusive("with-run-id", "since")

	return cmd
}

// compareOptions holds the parsed compare flags.
type compareOptions struct {
	list      bool
	limit     int
	withRunID uuid.UUID
	since     time.Time
	json      bool
	markdown  bool
	dbDir     string
}

func parseCompareFlags(cmd *cobra.Command) (*compareOptions, error) {
	flags := cmd.Flags()
	opts := &compareOptions{}

	var err error
	if opts.list, err = flags.GetBool("list"); err != nil {
		return nil, err
	}
	if opts.limit, err = flags.GetInt("limit"); err != nil {
		return nil, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}

	id, err := flags.GetString("with-run-id")
	if err != nil {
		return nil, err
	}
	if id != "" {
		if opts.withRunID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid run ID %q: %w", id, err)
		}
	}

	since, err := flags.GetString("since")
	if err != nil {
		return nil, err
	}
	if since != "" {
		if opts.since, err = time.Parse(sinceLayout, since); err != nil {
			return nil, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
	}

	if opts.dbDir, err = flags.GetString("history-dir"); err != nil {
		return nil, err
	}
	if opts.dbDir == "" {
		opts.dbDir = config.XDGDataDir()
	}
	return opts, nil
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	// Validate flags before opening the database.
	opts, err := parseCompareFlags(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(opts.dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no audit history found (run 'inventoryaudit run' first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if opts.list {
		return listRuns(ctx, out, db, opts.limit)
	}

	prev, curr, err := selectRuns(ctx, db, opts)
	if err != nil {
		return err
	}
	comparison := audit.CompareRuns(*prev, *curr)

	var w report.Writer
	switch {
	case opts.json:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case opts.markdown:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out)
	}
	_, err = w.WriteComparison(&comparison)
	return err
}

// selectRuns picks the previous and current run, oldest first.
func selectRuns(ctx context.Context, db *database.HistoryDB, opts *compareOptions) (prev, curr *model.StoredRun, err error) {
	switch {
	case opts.withRunID != uuid.Nil:
		chosen, err := db.GetRun(ctx, opts.withRunID)
		if err != nil {
			return nil, nil, err
		}
		other, err := db.LatestRun(ctx, opts.withRunID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: run %s has nothing to compare with", err, opts.withRunID)
		}
		if other.Summary.FinishedAt.After(chosen.Summary.FinishedAt) {
			return chosen, other, nil
		}
		return other, chosen, nil

	case !opts.since.IsZero():
		return runsSince(ctx, db, opts.since)

	default:
		prev, curr, err := db.LatestRuns(ctx)
		if errors.Is(err, database.ErrNotEnoughRuns) {
			return nil, nil, fmt.Errorf("at least 2 runs are required for comparison: %w", err)
		}
		return prev, curr, err
	}
}

// runsSince pairs the latest run with the oldest run finished on or after since.
func runsSince(ctx context.Context, db *database.HistoryDB, since time.Time) (prev, curr *model.StoredRun, err error) {
	records, err := db.ListRuns(ctx, 0)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, database.ErrNotEnoughRuns
	}

	// Records are newest first.
	oldest := -1
	for i := len(records) - 1; i >= 0; i-- {
		if !records[i].FinishedAt.Before(since) {
			oldest = i
			break
		}
	}
	if oldest < 0 {
		return nil, nil, fmt.Errorf("no runs found since %s", since.Format(sinceLayout))
	}
	if oldest == 0 {
		return nil, nil, fmt.Errorf("only one run found since %s; at least 2 runs are required for comparison",
			since.Format(sinceLayout))
	}

	if prev, err = db.GetRun(ctx, records[oldest].ID); err != nil {
		return nil, nil, err
	}
	if curr, err = db.GetRun(ctx, records[0].ID); err != nil {
		return nil, nil, err
	}
	return prev, curr, nil
}

// listRuns prints the stored runs as a table.
func listRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, limit int) error {
	records, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No runs found in the history database.")
		fmt.Fprintln(out, "\nUse 'inventoryaudit run' to record one.")
		return nil
	}

	fmt.Fprintf(out, "Audit history (%d runs):\n\n", len(records))
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		status := "ok"
		if rec.Failed {
			status = "failed"
		}
		rows = append(rows, []string{
			rec.ID.String(),
			rec.FinishedAt.Local().Format(listTimeLayout),
			rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond).String(),
			strconv.Itoa(rec.AgencyCount),
			status,
		})
	}
	if err := report.WriteTable(out, []string{"Run ID", "Finished", "Duration", "Agencies", "Status"}, rows, 3); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nUse 'inventoryaudit compare' to compare the latest two runs.")
	fmt.Fprintln(out, "Use 'inventoryaudit compare --with-run-id <id>' to compare a specific run.")
	return nil
}
