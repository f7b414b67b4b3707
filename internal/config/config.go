package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBatchSize of 1 preserves the sequential reference behavior:
	// each archive is fully validated before the next begins. Validation
	// is I/O bound and archives are independent, so users with large
	// collections on fast storage can raise this via the --batch flag.
	DefaultBatchSize = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "epubscan"
)

// Config holds all configuration options for epubscan.
// This struct is populated from CLI flags and the optional .epubscan file
// and passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// Directory is the directory containing EPUB files to scan.
	Directory string

	// IsolateBroken moves broken archives into a "broken" subdirectory
	// of the scanned directory after validation.
	IsolateBroken bool

	// BatchSize is the number of concurrent validations.
	// 1 means archives are validated sequentially in discovery order.
	BatchSize int

	// Exclude holds base-name glob patterns of archives to skip during
	// directory scans. Populated from the configuration file.
	Exclude []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .epubscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// JSONReport enables JSON report output instead of the human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to the given path instead of stdout.
	ReportFile string

	// SaveToDB persists the scan outcome to the scan-history database.
	SaveToDB bool

	// DBDir is the directory holding the scan-history database.
	// Defaults to the XDG data directory for epubscan.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
		SaveToDB:  true,
		DBDir:     XDGDataDir(),
	}
}

// Validate checks the configuration for invalid or conflicting settings.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return ErrNoDirectory
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// XDGDataDir returns the XDG data directory for epubscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/epubscan
// On macOS: ~/Library/Application Support/epubscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
