package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/epubtools/epubscan/internal/config"
	"github.com/epubtools/epubscan/internal/database"
	"github.com/epubtools/epubscan/internal/epub"
	"github.com/epubtools/epubscan/internal/model"
	"github.com/epubtools/epubscan/internal/report"
	"github.com/epubtools/epubscan/internal/scanner"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Scan a directory of EPUB files for missing image references",
		Long: `Scan validates every *.epub file directly inside the given directory.

For each archive it checks that the container is a readable ZIP file and
that every image referenced from the archive's HTML content (img src,
image xlink:href/href) resolves to an entry inside the archive. Broken
archives are reported with one line per missing resource.

Examples:
  # Scan a directory and report broken files
  epubscan scan ~/books

  # Move broken files into ~/books/broken
  epubscan scan --isolate ~/books

  # Validate up to 8 archives concurrently
  epubscan scan --batch 8 ~/books

  # Output a JSON report to a file
  epubscan scan --json --output report.json ~/books

Configuration file (.epubscan) example:
  defaults:
    isolate: true
    batch: 4
  exclude:
    - "*.draft.epub"`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	// Scan behavior flags
	cmd.Flags().BoolP("isolate", "i", false,
		"Move broken EPUB files to a 'broken' subdirectory")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent validations")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .epubscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not record this scan in the history database")
	cmd.Flags().String("db-dir", "",
		"Directory of the scan-history database (default: XDG data dir)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. File settings apply only where the corresponding flag
// was not set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Directory = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.IsolateBroken, err = cmd.Flags().GetBool("isolate")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load settings from the config file.
	// If the user explicitly specified a config file path, error if not
	// found. If no path was specified, silently continue without one.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		applyConfigFile(cmd, cfg, file)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	return cfg, nil
}

// applyConfigFile merges file settings into cfg. Flags the user set
// explicitly always win.
func applyConfigFile(cmd *cobra.Command, cfg *config.Config, file *config.File) {
	if !cmd.Flags().Changed("isolate") && file.Defaults.Isolate {
		cfg.IsolateBroken = true
	}
	if !cmd.Flags().Changed("batch") && file.Defaults.Batch > 0 {
		cfg.BatchSize = file.Defaults.Batch
	}
	cfg.Exclude = file.Exclude
}

// runScan executes the directory scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"directory", cfg.Directory,
		"isolate", cfg.IsolateBroken,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the history database if saving is enabled
	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close() //nolint:errcheck // Read-mostly handle, nothing to do on failure
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	validator := epub.NewValidator(epub.WithLogger(logger))

	// With the default text format on stdout, broken archives are reported
	// as soon as each validation completes. File or structured output is
	// rendered once, after the scan.
	streaming := !cfg.JSONReport && !cfg.MarkdownReport && cfg.ReportFile == ""

	opts := []scanner.ScanOption{
		scanner.WithLogger(logger),
		scanner.WithBatchSize(cfg.BatchSize),
		scanner.WithIsolation(cfg.IsolateBroken),
		scanner.WithExcludePatterns(cfg.Exclude),
	}

	var streamWriter *report.SimpleWriter
	if streaming {
		streamWriter = report.NewSimpleWriter(os.Stdout)
		opts = append(opts, scanner.WithResultCallback(func(r *model.ValidationResult) {
			if _, err := streamWriter.WriteResult(r); err != nil {
				logger.Error("failed to write diagnostics", "archive", r.ArchivePath, "error", err)
			}
		}))
	}

	startTime := time.Now()
	outcome, err := scanner.New(validator, opts...).Scan(ctx, cfg.Directory)
	if err != nil {
		return err
	}
	logger.Info("scan completed",
		"elapsed", time.Since(startTime).Round(time.Millisecond),
		"total", outcome.Total(),
		"broken", outcome.BrokenCount(),
	)

	if streaming {
		if _, err := streamWriter.WriteSummary(outcome); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	} else if err := outputReport(cfg, outcome); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	// Record the scan in the history database
	if db != nil {
		if err := db.SaveScanOutcome(ctx, outcome); err != nil {
			logger.Error("failed to save scan outcome", "directory", cfg.Directory, "error", err)
		} else {
			logger.Info("scan outcome saved to database", "directory", cfg.Directory)
		}
	}

	return nil
}

// outputReport renders the scan outcome in the requested format.
func outputReport(cfg *config.Config, outcome *model.ScanOutcome) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Flushed by the final write below
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output)
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.WriteOutcome(outcome)
	return err
}
