package report

import (
	"strings"
	"testing"

	"github.com/epubtools/epubscan/internal/model"
)

// TestMarkdownWriterOutcome tests markdown rendering of a mixed outcome.
func TestMarkdownWriterOutcome(t *testing.T) {
	t.Parallel()

	outcome := model.NewScanOutcome("/books")
	outcome.Results = []*model.ValidationResult{
		model.NewValidationResult("/books/a.epub"),
		brokenResult("/books/b.epub"),
	}
	outcome.IsolationDir = "/books/broken"
	outcome.SkippedMoves = []string{"b.epub"}

	var sb strings.Builder
	if _, err := NewMarkdownWriter(&sb).WriteOutcome(outcome); err != nil {
		t.Fatalf("WriteOutcome: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"# EPUB Validation Report",
		"`/books`",
		"## Broken Archives",
		"### b.epub",
		"`images/cover.jpg`",
		"`OEBPS/ch1.xhtml`",
		"## Isolation",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "### a.epub") {
		t.Error("valid archive should not get its own section")
	}
}

// TestMarkdownWriterAllValid tests the all-clear rendering.
func TestMarkdownWriterAllValid(t *testing.T) {
	t.Parallel()

	outcome := model.NewScanOutcome("/books")
	outcome.Results = []*model.ValidationResult{model.NewValidationResult("/books/a.epub")}

	var sb strings.Builder
	if _, err := NewMarkdownWriter(&sb).WriteOutcome(outcome); err != nil {
		t.Fatalf("WriteOutcome: %v", err)
	}

	if !strings.Contains(sb.String(), "All archives passed validation.") {
		t.Errorf("missing all-clear note:\n%s", sb.String())
	}
}

// TestMarkdownWriterResult tests single-archive rendering for invalid
// containers.
func TestMarkdownWriterResult(t *testing.T) {
	t.Parallel()

	r := model.NewValidationResult("/books/corrupt.epub")
	r.IsValidZip = false

	var sb strings.Builder
	if _, err := NewMarkdownWriter(&sb).WriteResult(r); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	if !strings.Contains(sb.String(), "Invalid ZIP file.") {
		t.Errorf("missing invalid-zip line:\n%s", sb.String())
	}
}
