package scanner

import "errors"

// Terminal scan conditions. Both end the run before any archive is
// processed; neither is a per-archive failure.
//
// Design decision: We use package-level sentinel errors rather than creating
// error instances at the call site so that callers can distinguish these
// conditions with errors.Is() while still getting a readable message.
var (
	// ErrDirectoryNotFound is returned when the scan directory does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrNotADirectory is returned when the scan path exists but is not a directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrNoArchives is returned when the directory contains no *.epub files.
	ErrNoArchives = errors.New("no EPUB files found in the specified directory")
)
