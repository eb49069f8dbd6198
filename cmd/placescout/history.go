package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/placescout/placescout/internal/config"
	"github.com/placescout/placescout/internal/database"
	"github.com/placescout/placescout/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past search runs",
		Long: `History lists the search runs recorded in the local database, newest
first. Use --show to print the records of one run as CSV without spending
API quota.

Examples:
  # List the 20 most recent runs
  placescout history

  # List every recorded run
  placescout history --limit 0

  # Print the records of run 3 as CSV
  placescout history --show 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 = all)")
	cmd.Flags().Int64("show", 0,
		"Print the records of the given run id as CSV")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no search history yet (run a search first): %w", err)
	}
	defer db.Close() //nolint:errcheck // read-side close

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if showID > 0 {
		return showRun(ctx, cmd, db, showID)
	}
	return listRuns(ctx, cmd, db, limit)
}

// listRuns prints the run table.
func listRuns(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, limit int) error {
	runs, err := db.ListSearches(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No search runs recorded yet.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-5s %-20s %-25s %-30s %s\n", "ID", "STARTED", "QUERY", "PLACES", "RECORDS")
	for _, run := range runs {
		places := strings.Join(run.Places, ", ")
		if places == "" {
			places = "-"
		}
		fmt.Fprintf(out, "%-5d %-20s %-25s %-30s %d\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			truncate(run.Query, 25),
			truncate(places, 30),
			run.TotalRecords,
		)
	}
	return nil
}

// showRun prints one run's records as CSV.
func showRun(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, id int64) error {
	records, err := db.RecordsBySearch(ctx, id)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("run %d has no records (or does not exist)", id)
	}

	return report.NewCSVWriter(cmd.OutOrStdout()).WriteRecords(records)
}

// truncate shortens a string to maxLen runes with ellipsis.
// Slicing by runes keeps multibyte place names valid UTF-8.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
