// Package epub implements the container validator: it opens one EPUB (ZIP)
// archive, extracts image references from every HTML content document, and
// checks that each reference resolves to an entry inside the archive.
//
// Validation is a pure function of a single archive. The validator holds no
// state between calls, so archives may be validated concurrently.
package epub
