package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.epub")
	bad := filepath.Join(dir, "bad.epub")
	writeEPUB(t, good, map[string]string{
		"ch1.xhtml": `<img src="pic.jpg">`,
		"pic.jpg":   "jpegdata",
	})
	writeEPUB(t, bad, map[string]string{
		"ch1.xhtml": `<img src="gone.jpg">`,
	})

	t.Run("all valid", func(t *testing.T) {
		out := new(bytes.Buffer)
		cmd := NewCheckCmd()
		cmd.SetOut(out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{good})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("check failed on valid archive: %v", err)
		}
		if !strings.Contains(out.String(), "[OK] good.epub") {
			t.Errorf("missing [OK] line in output: %q", out.String())
		}
	})

	t.Run("broken file fails the command", func(t *testing.T) {
		out := new(bytes.Buffer)
		cmd := NewCheckCmd()
		cmd.SetOut(out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{good, bad})
		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected non-nil error for broken archive")
		}
		if !strings.Contains(err.Error(), "1 of 2") {
			t.Errorf("error = %v, want broken count", err)
		}
		if !strings.Contains(out.String(), "[BROKEN] bad.epub") {
			t.Errorf("missing [BROKEN] line in output: %q", out.String())
		}
		if !strings.Contains(out.String(), "Missing: 'gone.jpg' (referenced in 'ch1.xhtml')") {
			t.Errorf("missing diagnostic line in output: %q", out.String())
		}
	})

	t.Run("nonexistent path is a usage error", func(t *testing.T) {
		cmd := NewCheckCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{filepath.Join(dir, "missing.epub")})
		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error for nonexistent path")
		}
		if !strings.Contains(err.Error(), "cannot read") {
			t.Errorf("error = %v", err)
		}
	})
}
