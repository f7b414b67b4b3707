package epub

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// entry is one archive member for test fixtures. Entries are written in
// slice order so traversal order in assertions is deterministic.
type entry struct {
	name    string
	content string
}

// buildArchiveBytes creates an in-memory ZIP archive from the given entries.
// It calls t.Fatal on any error.
func buildArchiveBytes(t *testing.T, entries []entry) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, e := range entries {
		fw, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("buildArchiveBytes: create %s: %v", e.name, err)
		}
		if _, err := io.WriteString(fw, e.content); err != nil {
			t.Fatalf("buildArchiveBytes: write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("buildArchiveBytes: close writer: %v", err)
	}
	return buf.Bytes()
}

// buildArchiveFile writes a ZIP archive to a temporary file and returns the
// file path. Useful for testing Validate, which takes a filesystem path.
func buildArchiveFile(t *testing.T, entries []entry) string {
	t.Helper()
	fp := filepath.Join(t.TempDir(), "test.epub")
	if err := os.WriteFile(fp, buildArchiveBytes(t, entries), 0644); err != nil {
		t.Fatalf("buildArchiveFile: write file: %v", err)
	}
	return fp
}
