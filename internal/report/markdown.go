package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/epubtools/epubscan/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
// This format is designed for sharing scan results in issues and wikis.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation (tables, alerts, code spans) instead of
// hand-building strings.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteResult outputs the findings for a single archive.
func (w *MarkdownWriter) WriteResult(result *model.ValidationResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("EPUB Validation Report")
	md.PlainText("")
	w.writeArchive(md, result)

	return len(md.String()), md.Build()
}

// WriteOutcome outputs a full directory-scan report.
func (w *MarkdownWriter) WriteOutcome(outcome *model.ScanOutcome) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("EPUB Validation Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Directory", "`" + outcome.Directory + "`"},
			{"Scan Date", outcome.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Total Files Checked", strconv.Itoa(outcome.Total())},
			{"Valid Files", strconv.Itoa(outcome.ValidCount())},
			{"Broken Files", strconv.Itoa(outcome.BrokenCount())},
		},
	})
	md.PlainText("")

	if outcome.BrokenCount() == 0 {
		md.Note("All archives passed validation.")
		return len(md.String()), md.Build()
	}

	md.Warningf("%d broken archive(s) found.", outcome.BrokenCount())
	md.PlainText("")

	md.H2("Broken Archives")
	md.PlainText("")
	for _, result := range outcome.Broken() {
		w.writeArchive(md, result)
	}

	if outcome.IsolationDir != "" {
		md.H2("Isolation")
		md.PlainText("")
		md.PlainTextf("Broken archives moved to `%s`.", outcome.IsolationDir)
		md.PlainText("")
		if len(outcome.SkippedMoves) > 0 {
			items := make([]string, 0, len(outcome.SkippedMoves))
			for _, name := range outcome.SkippedMoves {
				items = append(items, "`"+name+"` (already present, left in place)")
			}
			md.BulletList(items...)
			md.PlainText("")
		}
	}

	return len(md.String()), md.Build()
}

// writeArchive writes one archive's findings as a section.
func (w *MarkdownWriter) writeArchive(md *markdown.Markdown, result *model.ValidationResult) {
	md.H3(result.Name())
	md.PlainText("")

	switch {
	case result.Valid():
		md.PlainText("No problems found.")
	case !result.IsValidZip:
		md.PlainText("Invalid ZIP file.")
	case result.Err != "":
		md.PlainTextf("Unreadable archive: %s", result.Err)
	default:
		rows := make([][]string, 0, len(result.Missing))
		for _, missing := range result.Missing {
			rows = append(rows, []string{
				"`" + missing.TargetPath + "`",
				"`" + missing.ReferencedIn + "`",
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Missing Resource", "Referenced In"},
			Rows:   rows,
		})
	}
	md.PlainText("")
}
