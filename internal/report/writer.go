package report

import (
	"io"

	"github.com/epubtools/epubscan/internal/model"
)

// Writer defines the interface for report output.
// Implementations render scan results in various formats.
//
// Design decision: We use an interface so the CLI can select between text,
// JSON, and Markdown output with the same API, and write to stdout or a file
// interchangeably.
type Writer interface {
	// WriteResult outputs the diagnostics for a single archive.
	// Returns the number of bytes written and any error encountered.
	WriteResult(result *model.ValidationResult) (int, error)

	// WriteOutcome outputs a full directory-scan report: per-archive
	// diagnostics followed by the summary.
	WriteOutcome(outcome *model.ScanOutcome) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
