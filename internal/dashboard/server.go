// Package dashboard serves the interactive fossil site map.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/fossilmap/internal/llm"
	"github.com/ppiankov/fossilmap/internal/metrics"
	"github.com/ppiankov/fossilmap/internal/model"
)

//go:embed templates/index.html
var templates embed.FS

const shutdownTimeout = 5 * time.Second

// Server holds the loaded dataset and the HTTP router
type Server struct {
	sites      []model.Site
	located    int
	config     model.DashboardConfig
	summarizer *llm.Summarizer
	router     *gin.Engine
}

// NewServer builds the router for sites. summarizer may be nil.
func NewServer(sites []model.Site, cfg model.DashboardConfig, summarizer *llm.Summarizer) (*Server, error) {
	if _, ok := FindMapStyle(cfg.MapStyle); !ok {
		return nil, fmt.Errorf("unknown map style %q", cfg.MapStyle)
	}
	for _, colour := range []string{cfg.PointColour, cfg.LabelColour} {
		if _, err := ParseColour(colour); err != nil {
			return nil, fmt.Errorf("dashboard config: %w", err)
		}
	}

	page, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	s := &Server{
		sites:      sites,
		config:     cfg,
		summarizer: summarizer,
	}
	for _, site := range sites {
		if site.HasLocation() {
			s.located++
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestMetrics())
	router.SetHTMLTemplate(page)

	router.GET("/", s.index)
	router.GET("/healthz", s.healthz)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.GET("/timeline", s.timeline)
	api.GET("/options", s.options)
	api.GET("/sites", s.sitesGeoJSON)
	api.POST("/summary", s.summary)

	s.router = router
	return s, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Dashboard listening on %s (%d sites, %d located)", addr, len(s.sites), s.located)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down dashboard...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("Dashboard stopped")
	return nil
}
