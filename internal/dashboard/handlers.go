package dashboard

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/fossilmap/internal/filter"
	"github.com/ppiankov/fossilmap/internal/llm"
	"github.com/ppiankov/fossilmap/internal/metrics"
)

// PeriodOption is one entry of the era selectors
type PeriodOption struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type indexData struct {
	Title          string
	Timeline       []PeriodOption
	LastIndex      int
	Styles         []MapStyle
	Display        Display
	SummaryEnabled bool
}

func timelineOptions() []PeriodOption {
	periods := filter.Timeline()
	out := make([]PeriodOption, len(periods))
	for i, p := range periods {
		out[i] = PeriodOption{Index: int(p), Name: p.String()}
	}
	return out
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", indexData{
		Title:     "Fossil Sites Visualization",
		Timeline:  timelineOptions(),
		LastIndex: int(filter.Last),
		Styles:    MapStyles,
		Display: Display{
			Style:       s.config.MapStyle,
			PointColour: s.config.PointColour,
			LabelColour: s.config.LabelColour,
		},
		SummaryEnabled: s.summarizer.IsEnabled(),
	})
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"sites":   len(s.sites),
		"located": s.located,
	})
}

func (s *Server) timeline(c *gin.Context) {
	c.JSON(http.StatusOK, timelineOptions())
}

func (s *Server) options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"map_styles":    MapStyles,
		"default_style": s.config.MapStyle,
		"point_colour":  s.config.PointColour,
		"label_colour":  s.config.LabelColour,
		"summaries":     s.summarizer.IsEnabled(),
	})
}

func (s *Server) sitesGeoJSON(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	display, err := parseDisplay(c, s.config)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matched := filter.Apply(s.sites, filter.Build(q))
	metrics.SitesMatched.Observe(float64(len(matched)))

	body, err := featureCollection(matched, len(s.sites), display).MarshalJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode sites"})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", body)
}

func (s *Server) summary(c *gin.Context) {
	if !s.summarizer.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "summaries are disabled (no LLM provider configured)"})
		return
	}
	provider := s.summarizer.ProviderName()

	q, err := parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restrictions := filter.Build(q)
	summary, err := s.summarizer.GenerateSummary(c.Request.Context(), llm.Selection{
		Restrictions: restrictions,
		Sites:        filter.Apply(s.sites, restrictions),
		Total:        len(s.sites),
	})
	if err != nil {
		metrics.SummariesTotal.WithLabelValues(provider, "error").Inc()
		log.Printf("Summary failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate summary"})
		return
	}

	status := "ok"
	if summary == nil || !summary.Enabled || summary.Text == "" {
		status = "degraded"
	}
	metrics.SummariesTotal.WithLabelValues(provider, status).Inc()
	c.JSON(http.StatusOK, summary)
}
