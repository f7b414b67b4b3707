// Package log provides slog handler utilities for epubscan.
// Its TildeHandler shortens home-directory prefixes in path-valued log
// attributes so per-archive diagnostics stay readable on long library paths.
package log
