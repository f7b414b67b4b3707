package epub

import (
	"net/url"
	"path"
	"strings"
)

// externalPrefixes are URI-scheme prefixes that identify non-file references.
// References with these prefixes are never resolved against the archive and
// never reported as missing.
var externalPrefixes = []string{"http:", "https:", "data:", "mailto:"}

// isExternalRef reports whether ref points outside the archive.
func isExternalRef(ref string) bool {
	for _, prefix := range externalPrefixes {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}

// resolveReference resolves an image reference against the directory of the
// content document that contains it, returning the normalized
// archive-relative target path.
//
// The reference is URL-decoded first (%20 becomes a space); a reference with
// invalid percent-escapes is kept as-is rather than rejected. Resolution uses
// POSIX semantics: the document's dirname is joined with the reference and
// "."/".." segments are collapsed. A rooted reference is normalized on its
// own without joining, and keeps its leading slash, so it can never match a
// ZIP entry.
//
// Resolution is a pure function of (ref, docPath): the same pair always
// yields the same target regardless of traversal order.
func resolveReference(docPath, ref string) string {
	if decoded, err := url.PathUnescape(ref); err == nil {
		ref = decoded
	}

	if strings.HasPrefix(ref, "/") {
		return path.Clean(ref)
	}

	dir := path.Dir(docPath)
	return path.Join(dir, ref) // path.Join cleans the result
}

// isContentDocument reports whether an entry path names an HTML content
// document. The extension match is case-insensitive.
func isContentDocument(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".html") ||
		strings.HasSuffix(lower, ".xhtml") ||
		strings.HasSuffix(lower, ".htm")
}
