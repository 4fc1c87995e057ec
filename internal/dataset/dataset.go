// Package dataset reads and writes the fossil site CSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/ppiankov/fossilmap/internal/model"
)

// Column names of the raw scrape output
const (
	ColSite           = "Site"
	ColGroup          = "Group, Formation, or Unit"
	ColCountry        = "Country"
	ColContinent      = "Continent"
	ColAge            = "Age"
	ColNoteworthiness = "Noteworthiness"
	ColLatitude       = "Latitude"
	ColLongitude      = "Longitude"
	ColArticle        = "Article" // linked page title, optional
)

// NA marks an absent coordinate
const NA = "NA"

// Header is the column layout written by Write
var Header = []string{
	ColSite, ColGroup, ColCountry, ColContinent, ColAge, ColNoteworthiness, ColLatitude, ColLongitude, ColArticle,
}

// ErrMissingColumn is returned when a required column is absent from the header
var ErrMissingColumn = errors.New("missing column")

// Write writes sites in the raw layout. Sites without a location get NA coordinates.
func Write(w io.Writer, sites []model.Site) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range sites {
		lat, lon := NA, NA
		if s.HasLocation() {
			lat = strconv.FormatFloat(s.Lat(), 'f', -1, 64)
			lon = strconv.FormatFloat(s.Lon(), 'f', -1, 64)
		}
		record := []string{s.Site, s.Group, s.Country, s.Continent, s.Age, s.Noteworthiness, lat, lon, s.Article}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write %q: %w", s.Site, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes sites to path atomically
func WriteFile(path string, sites []model.Site) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".fossilmap-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := Write(tmp, sites); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Read parses a site CSV. Columns are located by header name, so the
// cleaned layout without the Group column reads as well as the raw one.
// Site and Age are required; every other column is optional.
func Read(r io.Reader) ([]model.Site, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []model.Site{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{ColSite, ColAge} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var sites []model.Site
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := cr.FieldPos(0)

		site := model.Site{
			Site:           field(record, ColSite),
			Group:          field(record, ColGroup),
			Country:        field(record, ColCountry),
			Continent:      field(record, ColContinent),
			Age:            field(record, ColAge),
			Noteworthiness: field(record, ColNoteworthiness),
			Article:        field(record, ColArticle),
		}

		location, err := parseLocation(field(record, ColLatitude), field(record, ColLongitude))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		site.Location = location
		sites = append(sites, site)
	}

	if sites == nil {
		sites = []model.Site{}
	}
	return sites, nil
}

// Load reads path and cleans every row for display
func Load(path string) ([]model.Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	sites, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Clean(sites), nil
}

// Clean merges the Group column into Site on every row
func Clean(sites []model.Site) []model.Site {
	out := make([]model.Site, len(sites))
	for i, s := range sites {
		out[i] = s.Normalize()
	}
	return out
}

func parseLocation(latText, lonText string) (*orb.Point, error) {
	if isAbsent(latText) || isAbsent(lonText) {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(latText, 64)
	if err != nil {
		return nil, fmt.Errorf("latitude %q: %w", latText, err)
	}
	lon, err := strconv.ParseFloat(lonText, 64)
	if err != nil {
		return nil, fmt.Errorf("longitude %q: %w", lonText, err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("coordinates out of range: %v, %v", lat, lon)
	}
	return model.NewPoint(lat, lon), nil
}

func isAbsent(v string) bool {
	return v == "" || strings.EqualFold(v, NA) || strings.EqualFold(v, "nan")
}
