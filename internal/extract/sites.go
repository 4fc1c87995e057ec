package extract

import (
	"strings"

	"github.com/ppiankov/fossilmap/internal/model"
)

// column identifies which Site field a table header feeds
type column int

const (
	colUnknown column = iota
	colSite
	colGroup
	colCountry
	colContinent
	colAge
	colNoteworthiness
)

func classifyHeader(header string) column {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case h == "site" || h == "name" || h == "locality":
		return colSite
	case strings.Contains(h, "group") || strings.Contains(h, "formation"):
		return colGroup
	case strings.HasPrefix(h, "country"):
		return colCountry
	case strings.HasPrefix(h, "continent"):
		return colContinent
	case h == "age" || strings.HasPrefix(h, "period"):
		return colAge
	case strings.HasPrefix(h, "noteworth") || h == "notes" || h == "notable fossils":
		return colNoteworthiness
	}
	return colUnknown
}

// Sites maps table rows onto sites by header name. Cells beyond the header
// count are ignored and missing trailing cells stay empty.
func (t *Table) Sites() []model.Site {
	columns := make([]column, len(t.Headers))
	for i, h := range t.Headers {
		columns[i] = classifyHeader(h)
	}

	sites := make([]model.Site, 0, len(t.Rows))
	for _, row := range t.Rows {
		site := model.Site{Article: row.Link}
		for i, cell := range row.Cells {
			if i >= len(columns) {
				break
			}
			switch columns[i] {
			case colSite:
				site.Site = cell
			case colGroup:
				site.Group = cell
			case colCountry:
				site.Country = cell
			case colContinent:
				site.Continent = cell
			case colAge:
				site.Age = cell
			case colNoteworthiness:
				site.Noteworthiness = cell
			}
		}
		sites = append(sites, site)
	}
	return sites
}
