package extract

import (
	"strings"

	"golang.org/x/net/html"
)

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// hasClass checks if a node has a specific CSS class
func hasClass(n *html.Node, className string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, class := range strings.Fields(attr(n, "class")) {
		if class == className {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findFirst returns the first node in document order matching predicate
func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	if predicate(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, predicate); found != nil {
			return found
		}
	}
	return nil
}

// children returns the direct element children with the given tag
func children(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		for _, tag := range tags {
			if c.Data == tag {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// isFileLink reports whether a is an image link; its text is a caption
// or alt text, not cell content
func isFileLink(a *html.Node) bool {
	if hasClass(a, "mw-file-description") || hasClass(a, "image") {
		return true
	}
	href := attr(a, "href")
	return strings.HasPrefix(href, "/wiki/File:") || strings.HasPrefix(href, "/wiki/Image:")
}

// cellText returns the visible text of a table cell. Footnote markers,
// hidden sort keys, image links and styles are skipped; whitespace is collapsed.
func cellText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "sup" && hasClass(n, "reference"):
				return
			case n.Data == "style", n.Data == "script":
				return
			case hasClass(n, "sortkey"), strings.Contains(attr(n, "style"), "display:none"):
				return
			case n.Data == "a" && isFileLink(n):
				return
			case n.Data == "br":
				buf.WriteString(" ")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return footnote.ReplaceAllString(strings.Join(strings.Fields(buf.String()), " "), "")
}
