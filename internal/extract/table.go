// Package extract parses the fossil site table out of a Wikipedia article.
package extract

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ErrTableNotFound is returned when the page has no wikitable
var ErrTableNotFound = errors.New("site table not found")

var footnote = regexp.MustCompile(`\s*\[(\d+|[a-z]|citation needed|note \d+)\]`)

// Table is the raw content of a wikitable
type Table struct {
	Headers []string
	Rows    []Row
}

// Row is one data row. Link is the title of the first article linked from
// the row, used to look up the site's coordinates.
type Row struct {
	Cells []string
	Link  string
}

// ParseSiteTable extracts the first sortable wikitable from an article
func ParseSiteTable(r io.Reader) (*Table, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "table") && hasClass(n, "wikitable") && hasClass(n, "sortable")
	})
	if table == nil {
		table = findFirst(doc, func(n *html.Node) bool {
			return isElement(n, "table") && hasClass(n, "wikitable")
		})
	}
	if table == nil {
		return nil, ErrTableNotFound
	}

	rows := tableRows(table)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table has no rows", ErrTableNotFound)
	}

	result := &Table{}
	for _, cell := range children(rows[0], "th", "td") {
		result.Headers = append(result.Headers, cellText(cell))
	}

	for _, tr := range rows[1:] {
		cells := children(tr, "td", "th")
		if len(cells) == 0 {
			continue
		}
		row := Row{Link: firstArticleLink(tr)}
		for _, cell := range cells {
			row.Cells = append(row.Cells, cellText(cell))
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// tableRows returns the table's rows whether or not they sit inside thead/tbody
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case isElement(c, "tr"):
			rows = append(rows, c)
		case isElement(c, "thead"), isElement(c, "tbody"), isElement(c, "tfoot"):
			rows = append(rows, children(c, "tr")...)
		}
	}
	return rows
}

// firstArticleLink returns the page title of the first /wiki/ link in n,
// skipping namespaced pages (File:, Help:) and red links.
func firstArticleLink(n *html.Node) string {
	link := findFirst(n, func(n *html.Node) bool {
		if !isElement(n, "a") || hasClass(n, "new") {
			return false
		}
		return ArticleTitle(attr(n, "href")) != ""
	})
	if link == nil {
		return ""
	}
	return ArticleTitle(attr(link, "href"))
}

// ArticleTitle converts a /wiki/ href into a page title ("Messel_pit#History" => "Messel pit").
// It returns "" for anything that is not a main-namespace article link.
func ArticleTitle(href string) string {
	if !strings.HasPrefix(href, "/wiki/") {
		return ""
	}
	path := strings.TrimPrefix(href, "/wiki/")
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path = path[:i]
	}
	title, err := url.PathUnescape(path)
	if err != nil || title == "" || strings.Contains(title, ":") {
		return ""
	}
	return strings.ReplaceAll(title, "_", " ")
}
