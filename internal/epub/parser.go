package epub

import (
	"bytes"

	"golang.org/x/net/html"
)

// extractImageRefs parses an HTML content document and returns the image
// references it contains, in document order.
//
// Design decision: We use golang.org/x/net/html rather than encoding/xml
// because EPUB content documents are frequently ill-formed and the HTML
// parser never aborts on malformed markup, while encoding/xml rejects it.
//
// References come from:
//   - <img> elements: the src attribute
//   - <image> elements (SVG covers): xlink:href, falling back to href
//
// The HTML parser rewrites <image> to <img> outside of SVG foreign content,
// so for <img> elements without a src we also fall back to xlink:href/href.
// Empty attribute values are ignored.
func extractImageRefs(data []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "img":
				ref := attrValue(n, "src")
				if ref == "" {
					ref = linkedHref(n)
				}
				if ref != "" {
					refs = append(refs, ref)
				}
			case "image":
				if ref := linkedHref(n); ref != "" {
					refs = append(refs, ref)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return refs, nil
}

// linkedHref returns the xlink:href attribute of n, or href if xlink:href is
// absent or empty.
func linkedHref(n *html.Node) string {
	if ref := attrValue(n, "xlink:href"); ref != "" {
		return ref
	}
	return attrValue(n, "href")
}

// attrValue looks up an attribute by name. Inside SVG foreign content the
// parser splits "xlink:href" into namespace "xlink" and key "href", so both
// spellings are matched.
func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
		if a.Namespace != "" && a.Namespace+":"+a.Key == name {
			return a.Val
		}
	}
	return ""
}
