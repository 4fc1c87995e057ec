package dashboard

import (
	"fmt"
	"regexp"
	"strings"
)

// MapStyle is a selectable base map
type MapStyle struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	TileURL     string `json:"tile_url"`
	Attribution string `json:"attribution"`
}

// MapStyles lists the base maps offered on the display tab
var MapStyles = []MapStyle{
	{
		ID:          "stamen-terrain",
		Label:       "Stamen Terrain",
		TileURL:     "https://tiles.stadiamaps.com/tiles/stamen_terrain/{z}/{x}/{y}.png",
		Attribution: "&copy; Stadia Maps &copy; Stamen Design &copy; OpenStreetMap contributors",
	},
	{
		ID:          "stamen-toner",
		Label:       "Stamen Toner",
		TileURL:     "https://tiles.stadiamaps.com/tiles/stamen_toner/{z}/{x}/{y}.png",
		Attribution: "&copy; Stadia Maps &copy; Stamen Design &copy; OpenStreetMap contributors",
	},
	{
		ID:          "open-street-map",
		Label:       "Open Street Map",
		TileURL:     "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
	},
	{
		ID:          "carto-positron",
		Label:       "Carto Positron",
		TileURL:     "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
	},
	{
		ID:          "carto-darkmatter",
		Label:       "Carto Darkmatter",
		TileURL:     "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
	},
}

// FindMapStyle looks up a style by ID
func FindMapStyle(id string) (MapStyle, bool) {
	for _, s := range MapStyles {
		if s.ID == id {
			return s, true
		}
	}
	return MapStyle{}, false
}

var colourPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ParseColour validates a #RRGGBB colour and returns it upper-cased
func ParseColour(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !colourPattern.MatchString(value) {
		return "", fmt.Errorf("invalid colour %q: want #RRGGBB", value)
	}
	return strings.ToUpper(value), nil
}
