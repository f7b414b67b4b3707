package model

import (
	"fmt"
	"path/filepath"
	"time"
)

// MissingResource describes a single image reference that does not resolve
// to an entry inside the archive.
type MissingResource struct {
	// TargetPath is the resolved archive-relative path the reference
	// points to, after URL-decoding and relative-path normalization.
	TargetPath string `json:"target_path"`

	// ReferencedIn is the archive-relative path of the content document
	// that contains the reference.
	ReferencedIn string `json:"referenced_in"`
}

// String formats the finding as a single diagnostic line.
func (m MissingResource) String() string {
	return fmt.Sprintf("Missing: '%s' (referenced in '%s')", m.TargetPath, m.ReferencedIn)
}

// ValidationResult is the outcome of validating a single EPUB archive.
//
// Design decision: the validator returns an immutable result value rather
// than accumulating state on a shared object. Every failure mode is captured
// in the result itself, which keeps validations independent and makes it safe
// to run many of them concurrently.
type ValidationResult struct {
	// ArchivePath is the filesystem path of the validated archive.
	ArchivePath string `json:"archive_path"`

	// IsValidZip reports whether the file opened as a ZIP container.
	// When false, Missing is always empty: an unreadable container is
	// reported for that single reason without further inspection.
	IsValidZip bool `json:"is_valid_zip"`

	// Missing lists image references that do not resolve to archive
	// entries, in content-document traversal order.
	Missing []MissingResource `json:"missing,omitempty"`

	// Err holds a human-readable description of an unexpected I/O error
	// encountered after the container opened successfully. A non-empty
	// Err classifies the archive as broken without missing-resource
	// detail.
	Err string `json:"error,omitempty"`
}

// NewValidationResult creates a result for the given archive path.
// The zero state assumes a valid container with no findings; the validator
// downgrades it as problems are discovered.
func NewValidationResult(archivePath string) *ValidationResult {
	return &ValidationResult{
		ArchivePath: archivePath,
		IsValidZip:  true,
		Missing:     make([]MissingResource, 0),
	}
}

// Valid reports whether the archive passed validation: the container opened,
// no unexpected error occurred, and every image reference resolved.
func (r *ValidationResult) Valid() bool {
	return r.IsValidZip && r.Err == "" && len(r.Missing) == 0
}

// Name returns the base filename of the archive, used in diagnostics.
func (r *ValidationResult) Name() string {
	return filepath.Base(r.ArchivePath)
}

// ScanOutcome is the result of scanning a directory of EPUB archives.
// Results preserve discovery order regardless of how validations were
// scheduled.
type ScanOutcome struct {
	// Directory is the scanned directory.
	Directory string `json:"directory"`

	// DateScanned is when the scan started.
	DateScanned time.Time `json:"date_scanned"`

	// Results holds one entry per matched archive, in discovery order.
	Results []*ValidationResult `json:"results"`

	// IsolationDir is the directory broken archives were moved into.
	// Empty when isolation was not requested or nothing was broken.
	IsolationDir string `json:"isolation_dir,omitempty"`

	// Moved lists the base names of archives relocated into IsolationDir.
	Moved []string `json:"moved,omitempty"`

	// SkippedMoves lists base names that could not be relocated because a
	// same-named file already existed in IsolationDir. They remain
	// counted as broken.
	SkippedMoves []string `json:"skipped_moves,omitempty"`
}

// NewScanOutcome creates an empty outcome for the given directory.
func NewScanOutcome(directory string) *ScanOutcome {
	return &ScanOutcome{
		Directory:   directory,
		DateScanned: time.Now(),
		Results:     make([]*ValidationResult, 0),
	}
}

// Valid returns the results that passed validation, in discovery order.
func (o *ScanOutcome) Valid() []*ValidationResult {
	return o.filter(true)
}

// Broken returns the results that failed validation, in discovery order.
func (o *ScanOutcome) Broken() []*ValidationResult {
	return o.filter(false)
}

func (o *ScanOutcome) filter(valid bool) []*ValidationResult {
	out := make([]*ValidationResult, 0, len(o.Results))
	for _, r := range o.Results {
		if r.Valid() == valid {
			out = append(out, r)
		}
	}
	return out
}

// Total is the number of archives checked.
func (o *ScanOutcome) Total() int { return len(o.Results) }

// ValidCount is the number of archives that passed validation.
func (o *ScanOutcome) ValidCount() int { return len(o.Valid()) }

// BrokenCount is the number of archives that failed validation.
func (o *ScanOutcome) BrokenCount() int { return len(o.Broken()) }
