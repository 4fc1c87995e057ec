// Package filter decides which fossil sites match a set of user restrictions.
//
// Criteria in the same category are OR'd; categories are AND'd. A category
// with no criteria imposes no constraint. Anything that cannot be parsed
// excludes the record instead of raising an error.
package filter

import (
	"strings"

	"github.com/ppiankov/fossilmap/internal/model"
	"golang.org/x/text/cases"
)

// Passes reports whether site satisfies every restricted category
func Passes(site model.Site, restrictions []Criterion) bool {
	if len(restrictions) == 0 {
		return true
	}

	groups := make(map[Category][]string, 4)
	for _, r := range restrictions {
		if !r.Category.Known() {
			return false
		}
		groups[r.Category] = append(groups[r.Category], r.Value)
	}

	fold := cases.Fold()
	for category, values := range groups {
		var ok bool
		switch category {
		case CategoryAge:
			ok = ageOverlaps(site.Age, values)
		case CategoryCountry:
			ok = containsAny(fold, site.Country, values)
		case CategoryNoteworthiness:
			ok = containsAny(fold, site.Noteworthiness, values)
		case CategorySite:
			ok = containsAny(fold, site.Site, values)
		}
		if !ok {
			return false
		}
	}
	return true
}

// Apply returns the sites that pass, in input order
func Apply(sites []model.Site, restrictions []Criterion) []model.Site {
	matched := make([]model.Site, 0, len(sites))
	for _, s := range sites {
		if Passes(s, restrictions) {
			matched = append(matched, s)
		}
	}
	return matched
}

func ageOverlaps(age string, values []string) bool {
	span, err := ParseAge(age)
	if err != nil {
		return false
	}

	selected := make(map[Period]bool, len(values))
	for _, v := range values {
		if p, ok := ParsePeriod(v); ok {
			selected[p] = true
		}
	}

	for _, p := range span {
		if selected[p] {
			return true
		}
	}
	return false
}

func containsAny(fold cases.Caser, field string, values []string) bool {
	haystack := fold.String(field)
	for _, v := range values {
		if strings.Contains(haystack, fold.String(v)) {
			return true
		}
	}
	return false
}
