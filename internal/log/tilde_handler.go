package log

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// TildeHandler wraps an slog.Handler and rewrites string attribute values
// that start with the user's home directory to use the conventional "~"
// prefix. epubscan logs archive and directory paths on nearly every record;
// abbreviating them keeps the output scannable without losing information.
//
// Design decision: We use a handler wrapper rather than rewriting paths at
// each call site because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites stay honest: they always log the real path
type TildeHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// home is the user's home directory, without a trailing separator.
	// Empty when the home directory could not be determined, in which
	// case records pass through unchanged.
	home string
}

// NewTildeHandler creates a TildeHandler wrapping the given handler.
// If handler is nil, the returned TildeHandler wraps slog.Default().Handler().
func NewTildeHandler(handler slog.Handler) *TildeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &TildeHandler{handler: handler, home: strings.TrimSuffix(home, "/")}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TildeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the underlying
// handler.
func (h *TildeHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.home == "" {
		return h.handler.Handle(ctx, r)
	}

	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are rewritten before being added.
func (h *TildeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &TildeHandler{handler: h.handler.WithAttrs(rewritten), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *TildeHandler) WithGroup(name string) slog.Handler {
	return &TildeHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// rewriteAttr abbreviates a single attribute, recursively handling groups.
func (h *TildeHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	if a.Value.Kind() == slog.KindString {
		if abbreviated, ok := h.abbreviate(a.Value.String()); ok {
			return slog.String(a.Key, abbreviated)
		}
	}

	return a
}

// abbreviate replaces a home-directory prefix with "~". The prefix must end
// at a path-separator boundary so "/home/userx" is not rewritten for home
// "/home/user".
func (h *TildeHandler) abbreviate(value string) (string, bool) {
	if value == h.home {
		return "~", true
	}
	if strings.HasPrefix(value, h.home+"/") {
		return "~" + value[len(h.home):], true
	}
	return "", false
}
