package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// newTestHandler returns a TildeHandler with a fixed home directory writing
// to buf.
func newTestHandler(buf *bytes.Buffer, home string) *TildeHandler {
	inner := slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		// Drop the time attribute for stable assertions.
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return &TildeHandler{handler: inner, home: home}
}

// TestTildeHandlerAbbreviatesPaths tests home-directory abbreviation of
// string attributes.
func TestTildeHandlerAbbreviatesPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "path under home",
			value: "/home/alice/books/novel.epub",
			want:  "~/books/novel.epub",
		},
		{
			name:  "home itself",
			value: "/home/alice",
			want:  "~",
		},
		{
			name:  "sibling user not rewritten",
			value: "/home/alicex/books/novel.epub",
			want:  "/home/alicex/books/novel.epub",
		},
		{
			name:  "unrelated path untouched",
			value: "/var/lib/books/novel.epub",
			want:  "/var/lib/books/novel.epub",
		},
		{
			name:  "non-path value untouched",
			value: "just a message",
			want:  "just a message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := slog.New(newTestHandler(&buf, "/home/alice"))

			logger.Info("checking", "archive", tt.value)

			if !strings.Contains(buf.String(), "archive="+quoteIfNeeded(tt.want)) {
				t.Errorf("output %q does not contain value %q", buf.String(), tt.want)
			}
		})
	}
}

// quoteIfNeeded mirrors slog's TextHandler quoting for values with spaces.
func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " ") {
		return `"` + s + `"`
	}
	return s
}

// TestTildeHandlerGroups tests that attributes inside groups are rewritten.
func TestTildeHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newTestHandler(&buf, "/home/alice"))

	logger.Info("checking",
		slog.Group("scan", slog.String("dir", "/home/alice/books")),
	)

	if !strings.Contains(buf.String(), "scan.dir=~/books") {
		t.Errorf("group attr not rewritten: %q", buf.String())
	}
}

// TestTildeHandlerWithAttrs tests rewriting of pre-bound attributes.
func TestTildeHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newTestHandler(&buf, "/home/alice")).
		With("directory", "/home/alice/books")

	logger.Info("scan started")

	if !strings.Contains(buf.String(), "directory=~/books") {
		t.Errorf("bound attr not rewritten: %q", buf.String())
	}
}

// TestTildeHandlerNoHome tests pass-through behavior when the home
// directory is unknown.
func TestTildeHandlerNoHome(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newTestHandler(&buf, ""))

	logger.Info("checking", "archive", "/home/alice/books/novel.epub")

	if !strings.Contains(buf.String(), "archive=/home/alice/books/novel.epub") {
		t.Errorf("value should pass through unchanged: %q", buf.String())
	}
}
