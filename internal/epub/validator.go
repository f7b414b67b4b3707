package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"

	"github.com/epubtools/epubscan/internal/model"
)

// maxDocumentSize caps the decompressed size of a single content document.
// This guards against zip bombs; an honest content document is nowhere near
// this large. Oversized documents are skipped like unparseable ones.
const maxDocumentSize int64 = 64 * 1024 * 1024

// Validator checks a single EPUB archive for unresolved image references.
//
// A Validator is stateless with respect to individual validations and is
// safe for concurrent use by multiple goroutines.
type Validator struct {
	logger *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for per-document diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator creates a Validator.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	return v
}

// Validate opens the archive at archivePath and checks every image reference
// in its content documents against the archive's entry set.
//
// Every failure mode is captured in the returned result; Validate never
// panics and never propagates an error to the caller:
//   - a file that does not open as a ZIP container yields IsValidZip=false
//     with no further inspection;
//   - a content document that fails to parse is skipped (logged at debug);
//   - an I/O error after a successful open aborts this archive's validation
//     and is recorded in the result's Err field.
//
// The archive is opened read-only and closed on every return path.
func (v *Validator) Validate(archivePath string) *model.ValidationResult {
	result := model.NewValidationResult(archivePath)

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		v.logger.Debug("not a valid ZIP container",
			"archive", archivePath,
			"error", err,
		)
		result.IsValidZip = false
		return result
	}
	defer zr.Close() //nolint:errcheck // Read-only handle

	// The entry set is computed once and treated as immutable for the
	// duration of the validation.
	entries := make(map[string]struct{}, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = struct{}{}
	}

	for _, f := range zr.File {
		if !isContentDocument(f.Name) {
			continue
		}
		if err := v.scanDocument(f, entries, result); err != nil {
			v.logger.Error("error processing archive",
				"archive", archivePath,
				"document", f.Name,
				"error", err,
			)
			result.Err = err.Error()
			return result
		}
	}

	return result
}

// scanDocument reads one content document and records unresolved image
// references on result. A parse failure is swallowed (the document is
// skipped); a read failure is returned to abort the archive.
func (v *Validator) scanDocument(f *zip.File, entries map[string]struct{}, result *model.ValidationResult) error {
	data, err := readEntry(f)
	if err != nil {
		return err
	}
	if data == nil {
		v.logger.Debug("skipping oversized content document",
			"archive", result.ArchivePath,
			"document", f.Name,
		)
		return nil
	}

	refs, err := extractImageRefs(data)
	if err != nil {
		v.logger.Debug("could not parse content document",
			"archive", result.ArchivePath,
			"document", f.Name,
			"error", err,
		)
		return nil
	}

	for _, ref := range refs {
		if isExternalRef(ref) {
			continue
		}
		target := resolveReference(f.Name, ref)
		if _, ok := entries[target]; !ok {
			result.Missing = append(result.Missing, model.MissingResource{
				TargetPath:   target,
				ReferencedIn: f.Name,
			})
		}
	}

	return nil
}

// readEntry reads the full contents of a ZIP entry, enforcing
// maxDocumentSize. It returns (nil, nil) for entries that exceed the limit.
func readEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > uint64(maxDocumentSize) {
		return nil, nil
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close() //nolint:errcheck // Read-only handle

	// The declared size may be forged; read one byte past the limit to
	// detect it.
	data, err := io.ReadAll(io.LimitReader(rc, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > maxDocumentSize {
		return nil, nil
	}

	return data, nil
}
