package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/epubtools/epubscan/internal/model"
)

// JSONWriter outputs reports as indented JSON, one document per call.
// This format is intended for machine consumption and archival.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteResult outputs a single validation result as JSON.
func (w *JSONWriter) WriteResult(result *model.ValidationResult) (int, error) {
	return w.encode(result)
}

// WriteOutcome outputs a full scan outcome as JSON.
func (w *JSONWriter) WriteOutcome(outcome *model.ScanOutcome) (int, error) {
	return w.encode(outcome)
}

// encode marshals v into an indented JSON document followed by a newline.
// We buffer the encoding so a marshal failure writes nothing at all.
func (w *JSONWriter) encode(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
