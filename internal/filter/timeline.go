package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Period is a division of geological time, indexed oldest (0) to youngest
type Period int

// Periods of the timeline, oldest first
const (
	Precambrian Period = iota
	Cambrian
	Ordovician
	Silurian
	Devonian
	Carboniferous
	Permian
	Triassic
	Jurassic
	Cretaceous
	Paleocene
	Eocene
	Oligocene
	Miocene
	Pliocene
	Pleistocene
	Holocene
)

// First and Last bound the timeline
const (
	First = Precambrian
	Last  = Holocene
)

var timeline = [...]string{
	"Precambrian",
	"Cambrian",
	"Ordovician",
	"Silurian",
	"Devonian",
	"Carboniferous",
	"Permian",
	"Triassic",
	"Jurassic",
	"Cretaceous",
	"Paleocene",
	"Eocene",
	"Oligocene",
	"Miocene",
	"Pliocene",
	"Pleistocene",
	"Holocene",
}

// qualifiers may precede a period name in the Age column ("Late Cretaceous")
var qualifiers = map[string]bool{
	"early":  true,
	"middle": true,
	"late":   true,
	"lower":  true,
	"upper":  true,
}

// Valid reports whether p lies on the timeline
func (p Period) Valid() bool {
	return p >= First && p <= Last
}

func (p Period) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return timeline[p]
}

// Timeline returns every period, oldest first
func Timeline() []Period {
	periods := make([]Period, 0, len(timeline))
	for p := First; p <= Last; p++ {
		periods = append(periods, p)
	}
	return periods
}

// ParsePeriod resolves a period name, ignoring case and surrounding space
func ParsePeriod(name string) (Period, bool) {
	name = strings.TrimSpace(name)
	for i, n := range timeline {
		if strings.EqualFold(n, name) {
			return Period(i), true
		}
	}
	return 0, false
}

// LookupPeriod accepts a timeline index ("11") or a period name ("Eocene")
func LookupPeriod(v string) (Period, error) {
	v = strings.TrimSpace(v)
	if i, err := strconv.Atoi(v); err == nil {
		p := Period(i)
		if !p.Valid() {
			return 0, fmt.Errorf("period index %d out of range %d-%d", i, First, Last)
		}
		return p, nil
	}
	if p, ok := ParsePeriod(v); ok {
		return p, nil
	}
	return 0, fmt.Errorf("unknown period %q", v)
}

// Span returns the inclusive run of periods between a and b in timeline order.
// Invalid bounds yield nil.
func Span(a, b Period) []Period {
	if !a.Valid() || !b.Valid() {
		return nil
	}
	if a > b {
		a, b = b, a
	}
	periods := make([]Period, 0, b-a+1)
	for p := a; p <= b; p++ {
		periods = append(periods, p)
	}
	return periods
}

// ParseAge expands an Age cell ("Jurassic", "Late Triassic to Early Jurassic")
// into the periods it spans.
func ParseAge(text string) ([]Period, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty age")
	}

	split := -1
	for i, f := range fields {
		if strings.EqualFold(f, "to") {
			if split >= 0 {
				return nil, fmt.Errorf("age %q: more than one range separator", text)
			}
			split = i
		}
	}

	if split < 0 {
		p, err := parseQualified(fields)
		if err != nil {
			return nil, fmt.Errorf("age %q: %w", text, err)
		}
		return []Period{p}, nil
	}

	from, err := parseQualified(fields[:split])
	if err != nil {
		return nil, fmt.Errorf("age %q: range start: %w", text, err)
	}
	to, err := parseQualified(fields[split+1:])
	if err != nil {
		return nil, fmt.Errorf("age %q: range end: %w", text, err)
	}
	return Span(from, to), nil
}

// parseQualified accepts a period name optionally preceded by qualifiers
func parseQualified(fields []string) (Period, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing period")
	}
	for _, q := range fields[:len(fields)-1] {
		if !qualifiers[strings.ToLower(q)] {
			return 0, fmt.Errorf("unknown qualifier %q", q)
		}
	}
	name := fields[len(fields)-1]
	p, ok := ParsePeriod(name)
	if !ok {
		return 0, fmt.Errorf("unknown period %q", name)
	}
	return p, nil
}
