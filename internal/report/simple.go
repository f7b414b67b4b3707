package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/epubtools/epubscan/internal/model"
)

// summaryRule is the horizontal rule used around the summary block.
const summaryRule = "------------------------------"

// SimpleWriter outputs human-readable text reports.
//
// Design decision: We use plain ASCII formatting rather than ANSI colors
// because it works in every terminal and pipes cleanly to files. The
// per-archive diagnostic block and the closing summary are stable formats
// that scripts may grep.
type SimpleWriter struct {
	baseWriter

	// showValid prints a confirmation line for archives that pass.
	// Directory scans keep this off so only broken archives are listed.
	showValid bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowValid enables an [OK] line for archives that pass validation.
func WithShowValid(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showValid = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteResult outputs the diagnostic block for one archive:
//
//	[BROKEN] <filename>
//	  - Invalid ZIP file
//	  - Missing: '<resolved/path>' (referenced in '<doc/path>')
//	<blank line>
//
// Archives that pass validation produce no output unless WithShowValid is
// set.
func (w *SimpleWriter) WriteResult(result *model.ValidationResult) (int, error) {
	if result.Valid() {
		if !w.showValid {
			return 0, nil
		}
		return fmt.Fprintf(w.output, "[OK] %s\n", result.Name())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[BROKEN] %s\n", result.Name()))
	if !result.IsValidZip {
		sb.WriteString("  - Invalid ZIP file\n")
	}
	if result.Err != "" {
		sb.WriteString(fmt.Sprintf("  - Error: %s\n", result.Err))
	}
	for _, missing := range result.Missing {
		sb.WriteString(fmt.Sprintf("  - %s\n", missing))
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// WriteOutcome outputs diagnostic blocks for every broken archive followed
// by the summary.
func (w *SimpleWriter) WriteOutcome(outcome *model.ScanOutcome) (int, error) {
	var total int
	for _, result := range outcome.Results {
		n, err := w.WriteResult(result)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err := w.WriteSummary(outcome)
	return total + n, err
}

// WriteSummary outputs the closing summary block. The "Moved to" line
// appears only when isolation created a destination directory.
func (w *SimpleWriter) WriteSummary(outcome *model.ScanOutcome) (int, error) {
	var sb strings.Builder
	sb.WriteString(summaryRule + "\n")
	sb.WriteString("Validation Summary\n")
	sb.WriteString(summaryRule + "\n")
	sb.WriteString(fmt.Sprintf("Total Files Checked: %d\n", outcome.Total()))
	sb.WriteString(fmt.Sprintf("Valid Files:         %d\n", outcome.ValidCount()))
	sb.WriteString(fmt.Sprintf("Broken Files:        %d\n", outcome.BrokenCount()))
	if outcome.IsolationDir != "" {
		sb.WriteString(fmt.Sprintf("Moved to:            %s\n", outcome.IsolationDir))
	}
	sb.WriteString(summaryRule + "\n")

	return io.WriteString(w.output, sb.String())
}
