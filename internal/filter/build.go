package filter

import "strings"

// Query holds the raw dashboard inputs
type Query struct {
	From           Period `json:"from"`
	To             Period `json:"to"`
	Country        string `json:"country"`
	Noteworthiness string `json:"noteworthiness"`
	Site           string `json:"site"`
}

// FullRange is a query with no restrictions
func FullRange() Query {
	return Query{From: First, To: Last}
}

// Build turns dashboard inputs into a restriction set. An era range covering
// the whole timeline adds no Age criteria. Text inputs are comma separated
// lists ("Denmark, USA, Brazil").
func Build(q Query) []Criterion {
	from, to := clamp(q.From), clamp(q.To)
	if from > to {
		from, to = to, from
	}

	var restrictions []Criterion
	if from != First || to != Last {
		for _, p := range Span(from, to) {
			restrictions = append(restrictions, Age(p))
		}
	}

	restrictions = appendTerms(restrictions, CategoryCountry, q.Country)
	restrictions = appendTerms(restrictions, CategoryNoteworthiness, q.Noteworthiness)
	restrictions = appendTerms(restrictions, CategorySite, q.Site)
	return restrictions
}

// SplitTerms splits a comma separated search box value
func SplitTerms(input string) []string {
	input = strings.TrimSpace(input)
	input = strings.TrimSuffix(input, ",")

	var terms []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

func appendTerms(restrictions []Criterion, category Category, input string) []Criterion {
	for _, term := range SplitTerms(input) {
		restrictions = append(restrictions, Criterion{Category: category, Value: term})
	}
	return restrictions
}

func clamp(p Period) Period {
	if p < First {
		return First
	}
	if p > Last {
		return Last
	}
	return p
}
