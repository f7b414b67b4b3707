// Package scanner orchestrates directory scans: it enumerates EPUB archives
// in a directory, validates each one, partitions them into valid and broken,
// and optionally relocates broken archives into an isolation subdirectory.
package scanner
