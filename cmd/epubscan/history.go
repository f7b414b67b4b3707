package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epubtools/epubscan/internal/config"
	"github.com/epubtools/epubscan/internal/database"
	"github.com/epubtools/epubscan/internal/report"
)

// NewHistoryCmd creates the history command.
// It reads past scan outcomes from the history database; it never scans.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past scan results",
		Long: `History lists directory scans recorded in the scan-history database.

Each scan is stored with its summary counts and full per-archive results.
Use --show with a scan ID to print the stored diagnostics of one scan.

Examples:
  # List the 20 most recent scans
  epubscan history

  # List the last 5 scans
  epubscan history --limit 5

  # Show stored diagnostics of scan 3
  epubscan history --show 3

  # List scans as JSON
  epubscan history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of scans to list (0 = all)")
	cmd.Flags().Int64P("show", "s", 0, "Show the stored per-archive results of the scan with this ID")
	cmd.Flags().BoolP("json", "j", false, "Output as JSON")
	cmd.Flags().String("db-dir", "", "Directory of the scan-history database (default: XDG data dir)")

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
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Never create a database here: no history means nothing to show.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("no scan history available: %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-only session

	ctx := cmd.Context()

	if showID > 0 {
		results, err := db.GetScanResults(ctx, showID)
		if err != nil {
			return err
		}

		if jsonOut {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		sw := report.NewSimpleWriter(cmd.OutOrStdout(), report.WithShowValid(true))
		for _, r := range results {
			if _, err := sw.WriteResult(r); err != nil {
				return err
			}
		}
		return nil
	}

	records, err := db.ListScans(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded.")
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-4s  %-19s  %-6s %-6s %-6s  %s\n",
		"ID", "Date", "Total", "Valid", "Broken", "Directory")
	for _, rec := range records {
		fmt.Fprintf(w, "%-4d  %-19s  %-6d %-6d %-6d  %s\n",
			rec.ID,
			rec.ScannedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Total,
			rec.Valid,
			rec.Broken,
			rec.Directory,
		)
	}
	return nil
}
