package dashboard

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/fossilmap/internal/filter"
	"github.com/ppiankov/fossilmap/internal/model"
)

// Display holds the map presentation options of a request
type Display struct {
	Style       string `json:"style"`
	PointColour string `json:"point_colour"`
	LabelColour string `json:"label_colour"`
}

// parseQuery reads the filter inputs: from, to, country, note, site
func parseQuery(c *gin.Context) (filter.Query, error) {
	q := filter.FullRange()

	if v := c.Query("from"); v != "" {
		p, err := filter.LookupPeriod(v)
		if err != nil {
			return q, fmt.Errorf("from: %w", err)
		}
		q.From = p
	}
	if v := c.Query("to"); v != "" {
		p, err := filter.LookupPeriod(v)
		if err != nil {
			return q, fmt.Errorf("to: %w", err)
		}
		q.To = p
	}

	q.Country = c.Query("country")
	q.Noteworthiness = c.Query("note")
	q.Site = c.Query("site")
	return q, nil
}

// parseDisplay reads style, point, label and separate. The label colour
// follows the point colour unless separate=yes.
func parseDisplay(c *gin.Context, defaults model.DashboardConfig) (Display, error) {
	d := Display{
		Style:       defaults.MapStyle,
		PointColour: defaults.PointColour,
		LabelColour: defaults.LabelColour,
	}

	if v := c.Query("style"); v != "" {
		if _, ok := FindMapStyle(v); !ok {
			return d, fmt.Errorf("unknown map style %q", v)
		}
		d.Style = v
	}
	if v := c.Query("point"); v != "" {
		colour, err := ParseColour(v)
		if err != nil {
			return d, err
		}
		d.PointColour = colour
	}
	if v := c.Query("label"); v != "" {
		colour, err := ParseColour(v)
		if err != nil {
			return d, err
		}
		d.LabelColour = colour
	}
	if c.Query("separate") != "yes" {
		d.LabelColour = d.PointColour
	}
	return d, nil
}
