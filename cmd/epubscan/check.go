package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/epubtools/epubscan/internal/epub"
	"github.com/epubtools/epubscan/internal/model"
	"github.com/epubtools/epubscan/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.epub>...",
		Short: "Validate individual EPUB files",
		Long: `Check validates the given EPUB files one by one.

Unlike scan, check takes explicit file paths, reports a result for every
file (including valid ones), and never relocates anything. It exits with a
non-zero status if any file fails validation, which makes it usable as a
pre-commit or post-conversion gate.

Examples:
  # Validate one file
  epubscan check book.epub

  # Validate several files, JSON output
  epubscan check --json *.epub`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheckCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output results as JSON")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// A path that does not exist is a usage error, not a broken archive.
	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
	}

	validator := epub.NewValidator(epub.WithLogger(logger))

	results := make([]*model.ValidationResult, 0, len(args))
	for _, path := range args {
		results = append(results, validator.Validate(path))
	}

	broken := 0
	for _, r := range results {
		if !r.Valid() {
			broken++
		}
	}

	if jsonOut {
		jw := report.NewJSONWriter(cmd.OutOrStdout())
		for _, r := range results {
			if _, err := jw.WriteResult(r); err != nil {
				return err
			}
		}
	} else {
		sw := report.NewSimpleWriter(cmd.OutOrStdout(), report.WithShowValid(true))
		for _, r := range results {
			if _, err := sw.WriteResult(r); err != nil {
				return err
			}
		}
	}

	if broken > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", broken, len(results))
	}
	return nil
}
