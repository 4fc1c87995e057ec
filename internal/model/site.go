package model

import "github.com/paulmach/orb"

// Site is one row of the fossil site table
type Site struct {
	Site           string     `json:"site"`
	Group          string     `json:"group,omitempty"` // "Group, Formation, or Unit" column
	Country        string     `json:"country"`
	Continent      string     `json:"continent"`
	Age            string     `json:"age"`             // Period name or "PeriodA to PeriodB"
	Noteworthiness string     `json:"noteworthiness"`
	Location       *orb.Point `json:"location,omitempty"` // nil when no coordinates were found
	Article        string     `json:"article,omitempty"`  // Linked Wikipedia page title
}

// HasLocation reports whether coordinates are known
func (s Site) HasLocation() bool {
	return s.Location != nil
}

// Lat returns the latitude, or 0 when the location is unknown
func (s Site) Lat() float64 {
	if s.Location == nil {
		return 0
	}
	return s.Location.Lat()
}

// Lon returns the longitude, or 0 when the location is unknown
func (s Site) Lon() float64 {
	if s.Location == nil {
		return 0
	}
	return s.Location.Lon()
}

// Normalize folds the Group column into Site the way the dashboard displays it:
// both present => "Site, Group"; Site missing => Group.
func (s Site) Normalize() Site {
	switch {
	case s.Site != "" && s.Group != "":
		s.Site = s.Site + ", " + s.Group
	case s.Site == "":
		s.Site = s.Group
	}
	s.Group = ""
	return s
}

// NewPoint builds a location from latitude/longitude
func NewPoint(lat, lon float64) *orb.Point {
	p := orb.Point{lon, lat}
	return &p
}
