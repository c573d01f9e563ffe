package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssdetect/ssdetect/internal/config"
	"github.com/ssdetect/ssdetect/internal/history"
)

// defaultHistoryLimit caps the listing to the most recent runs.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past classification runs",
		Long: `History lists the classification runs recorded in the local database.

Every classify run is recorded automatically unless --no-save was given.
The database lives in the XDG data directory and never leaves the machine.

Examples:
  # List the most recent runs
  ssdetect history

  # List every recorded run
  ssdetect history --limit 0

  # Only runs over a specific directory
  ssdetect history --dir ~/pictures

  # Machine-readable history
  ssdetect history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().StringP("dir", "d", "",
		"Only list runs for the specified directory")
	cmd.Flags().BoolP("json", "j", false,
		"Output run history as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	// Runs are stored under their absolute root, so the filter has to be
	// absolute too.
	if dir != "" {
		dir, err = filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve directory %s: %w", dir, err)
		}
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := history.Open(config.XDGDataDir(), history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-only listing

	return listRunHistory(cmd.Context(), db, dir, limit, jsonOutput)
}

// listRunHistory prints the recorded runs, newest first.
func listRunHistory(ctx context.Context, db *history.DB, dir string, limit int, jsonOutput bool) error {
	records, err := db.ListRuns(ctx, history.Filter{RootDir: dir, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		if dir != "" {
			fmt.Printf("No recorded runs for %s\n", dir)
		} else {
			fmt.Println("No recorded runs found.")
		}
		fmt.Println("\nUse 'ssdetect classify <directory>' to classify images and record a run.")
		return nil
	}

	totals, err := db.Totals(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to aggregate history: %w", err)
	}

	fmt.Printf("Run history (%d of %d runs):\n\n", len(records), totals.Runs)
	fmt.Printf("  %-6s  %-20s  %-11s  %-10s  %s\n", "ID", "Date", "Shots/Total", "Mode", "Directory")
	fmt.Println("  " + strings.Repeat("-", 72))

	for _, rec := range records {
		fmt.Printf("  %-6d  %-20s  %-11s  %-10s  %s\n",
			rec.ID,
			rec.RecordedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d/%d", rec.Summary.Screenshots, rec.Summary.Total),
			rec.Summary.Mode,
			rec.Summary.RootDir,
		)
	}

	fmt.Printf("\nTotals: %d runs, %d images classified, %d screenshots found.\n",
		totals.Runs, totals.Images, totals.Screenshots)

	return nil
}
