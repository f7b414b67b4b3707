package epub

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/epubtools/epubscan/internal/model"
)

// TestValidateAllReferencesPresent tests that an archive whose image
// references all resolve is reported valid.
func TestValidateAllReferencesPresent(t *testing.T) {
	t.Parallel()

	path := buildArchiveFile(t, []entry{
		{"chapter1.xhtml", `<html><body><img src="pic.jpg"/></body></html>`},
		{"pic.jpg", "jpegdata"},
	})

	result := NewValidator().Validate(path)

	if !result.IsValidZip {
		t.Error("expected IsValidZip to be true")
	}
	if len(result.Missing) != 0 {
		t.Errorf("expected no missing resources, got %v", result.Missing)
	}
	if !result.Valid() {
		t.Error("expected archive to be valid")
	}
}

// TestValidateMissingReference tests that an unresolved reference is
// reported with its resolved path and referencing document.
func TestValidateMissingReference(t *testing.T) {
	t.Parallel()

	path := buildArchiveFile(t, []entry{
		{"chapter1.xhtml", `<html><body><img src="pic.jpg"/></body></html>`},
	})

	result := NewValidator().Validate(path)

	if result.Valid() {
		t.Fatal("expected archive to be broken")
	}
	if !result.IsValidZip {
		t.Error("expected IsValidZip to be true for a well-formed container")
	}

	want := []model.MissingResource{
		{TargetPath: "pic.jpg", ReferencedIn: "chapter1.xhtml"},
	}
	if !reflect.DeepEqual(result.Missing, want) {
		t.Errorf("Missing = %v, want %v", result.Missing, want)
	}

	if got := result.Missing[0].String(); got != "Missing: 'pic.jpg' (referenced in 'chapter1.xhtml')" {
		t.Errorf("unexpected diagnostic line: %q", got)
	}
}

// TestValidateNotAZip tests that a non-ZIP file is classified as an invalid
// container without further inspection.
func TestValidateNotAZip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.epub")
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0644); err != nil {
		t.Fatal(err)
	}

	result := NewValidator().Validate(path)

	if result.IsValidZip {
		t.Error("expected IsValidZip to be false")
	}
	if len(result.Missing) != 0 {
		t.Errorf("expected empty missing list, got %v", result.Missing)
	}
	if result.Valid() {
		t.Error("expected archive to be broken")
	}
}

// TestValidateRelativeTraversal tests resolution of ../ references from a
// nested content document.
func TestValidateRelativeTraversal(t *testing.T) {
	t.Parallel()

	t.Run("resolved reference found", func(t *testing.T) {
		t.Parallel()
		path := buildArchiveFile(t, []entry{
			{"OEBPS/chapter1.xhtml", `<img src="../images/fig1.png">`},
			{"images/fig1.png", "pngdata"},
		})
		if result := NewValidator().Validate(path); !result.Valid() {
			t.Errorf("expected valid, got missing %v", result.Missing)
		}
	})

	t.Run("resolved reference absent", func(t *testing.T) {
		t.Parallel()
		path := buildArchiveFile(t, []entry{
			{"OEBPS/chapter1.xhtml", `<img src="../images/fig1.png">`},
		})
		result := NewValidator().Validate(path)
		want := []model.MissingResource{
			{TargetPath: "images/fig1.png", ReferencedIn: "OEBPS/chapter1.xhtml"},
		}
		if !reflect.DeepEqual(result.Missing, want) {
			t.Errorf("Missing = %v, want %v", result.Missing, want)
		}
	})
}

// TestValidateURLEncodedReference tests that percent-escapes decode before
// the membership check.
func TestValidateURLEncodedReference(t *testing.T) {
	t.Parallel()

	path := buildArchiveFile(t, []entry{
		{"chapter1.xhtml", `<img src="cover%20page.jpg">`},
		{"cover page.jpg", "jpegdata"},
	})

	if result := NewValidator().Validate(path); !result.Valid() {
		t.Errorf("expected valid, got missing %v", result.Missing)
	}
}

// TestValidateExternalReferences tests that non-file URI schemes are never
// flagged, even when a same-named entry is absent.
func TestValidateExternalReferences(t *testing.T) {
	t.Parallel()

	path := buildArchiveFile(t, []entry{
		{"chapter1.xhtml", `<html><body>
			<img src="http://example.com/a.png">
			<img src="https://example.com/b.png">
			<img src="data:image/png;base64,AAAA">
			<img src="mailto:x@example.com">
		</body></html>`},
	})

	if result := NewValidator().Validate(path); !result.Valid() {
		t.Errorf("expected valid, got missing %v", result.Missing)
	}
}

// TestValidateSVGImageElement tests <image> references used by SVG covers.
func TestValidateSVGImageElement(t *testing.T) {
	t.Parallel()

	path := buildArchiveFile(t, []entry{
		{"cover.xhtml", `<html><body><svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"><image xlink:href="images/cover.jpg"/></svg></body></html>`},
	})

	result := NewValidator().Validate(path)
	want := []model.MissingResource{
		{TargetPath: "images/cover.jpg", ReferencedIn: "cover.xhtml"},
	}
	if !reflect.DeepEqual(result.Missing, want) {
		t.Errorf("Missing = %v, want %v", result.Missing, want)
	}
}

// TestValidateNonContentEntriesIgnored tests that only HTML entries are
// scanned for references.
func TestValidateNonContentEntriesIgnored(t *testing.T) {
	t.Parallel()

	path := buildArchiveFile(t, []entry{
		{"style.css", `background: url("nonexistent.png");`},
		{"content.opf", `<item href="ghost.jpg"/>`},
		{"chapter1.xhtml", `<p>no images here</p>`},
	})

	if result := NewValidator().Validate(path); !result.Valid() {
		t.Errorf("expected valid, got missing %v", result.Missing)
	}
}

// TestValidateTraversalOrder tests that findings follow the (document,
// element) traversal order for a fixed entry order.
func TestValidateTraversalOrder(t *testing.T) {
	t.Parallel()

	path := buildArchiveFile(t, []entry{
		{"a.xhtml", `<img src="one.png"><img src="two.png">`},
		{"b.xhtml", `<img src="three.png">`},
	})

	result := NewValidator().Validate(path)
	want := []model.MissingResource{
		{TargetPath: "one.png", ReferencedIn: "a.xhtml"},
		{TargetPath: "two.png", ReferencedIn: "a.xhtml"},
		{TargetPath: "three.png", ReferencedIn: "b.xhtml"},
	}
	if !reflect.DeepEqual(result.Missing, want) {
		t.Errorf("Missing = %v, want %v", result.Missing, want)
	}
}

// TestValidateIdempotent tests that validating the same archive twice yields
// identical results.
func TestValidateIdempotent(t *testing.T) {
	t.Parallel()

	path := buildArchiveFile(t, []entry{
		{"ch1.xhtml", `<img src="a.png"><img src="present.png">`},
		{"present.png", "pngdata"},
	})

	v := NewValidator()
	first := v.Validate(path)
	second := v.Validate(path)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ across runs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// TestValidateCaseSensitiveMembership tests that entry matching is exact:
// a reference differing only in case is missing.
func TestValidateCaseSensitiveMembership(t *testing.T) {
	t.Parallel()

	path := buildArchiveFile(t, []entry{
		{"ch1.xhtml", `<img src="Cover.JPG">`},
		{"cover.jpg", "jpegdata"},
	})

	result := NewValidator().Validate(path)
	if result.Valid() {
		t.Error("expected case-mismatched reference to be reported missing")
	}
}
