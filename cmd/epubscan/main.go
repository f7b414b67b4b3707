// Package main provides the entry point for the epubscan CLI.
//
// epubscan validates EPUB collections: it checks that every image referenced
// from an archive's HTML content actually exists inside the archive, reports
// broken archives, and can quarantine them into a "broken" subdirectory.
//
// Usage:
//
//	epubscan scan <directory>
//	epubscan check <file.epub>...
//
// See --help for all available options.
package main

// main is the entry point for epubscan.
func main() {
	Execute()
}
