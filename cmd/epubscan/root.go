package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	intlog "github.com/epubtools/epubscan/internal/log"
)

// NewRootCmd creates the root command for epubscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epubscan",
		Short: "Validate image references in EPUB collections",
		Long: `epubscan scans EPUB archives and verifies that every image referenced
from their HTML content resolves to a real file inside the archive.

It catches truncated or corrupted ZIP containers, missing cover art, and
internal links broken by editing. Broken archives can optionally be moved
into a "broken" subdirectory for later triage.`,
		Version:       resolveBuildDetails().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
// Path-valued attributes have home-directory prefixes abbreviated to "~".
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := intlog.NewTildeHandler(slog.NewTextHandler(os.Stderr, opts))
	return slog.New(handler)
}
