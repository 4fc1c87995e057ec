// Package pipeline scrapes the fossil site list and resolves coordinates.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ppiankov/fossilmap/internal/cache"
	"github.com/ppiankov/fossilmap/internal/extract"
	"github.com/ppiankov/fossilmap/internal/model"
	"github.com/ppiankov/fossilmap/internal/worker"
)

// Scraper orchestrates fetch, table extraction and coordinate enrichment
type Scraper struct {
	fetcher  *Fetcher
	resolver *CoordinateResolver
	enricher *worker.Enricher
	config   *model.Config
}

// NewScraper creates a scraper from the configuration. c may be nil.
func NewScraper(cfg *model.Config, c cache.Cache) *Scraper {
	if c == nil {
		c = cache.Nop{}
	}

	fetcher := NewFetcher(cfg.HTTP).WithCache(c, cfg.Cache.DiskTTL)
	resolver := NewCoordinateResolver(fetcher, cfg.Source.APIURL()).WithCache(c, cfg.Cache.DiskTTL)
	enricher := worker.NewEnricher(resolver, cfg.Concurrency.Workers,
		cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	return &Scraper{
		fetcher:  fetcher,
		resolver: resolver,
		enricher: enricher,
		config:   cfg,
	}
}

// RowError records a row whose coordinates could not be resolved
type RowError struct {
	Index int
	Site  string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Index+1, e.Site, e.Err)
}

// ScrapeResult contains the scraped sites in table order
type ScrapeResult struct {
	SourceURL string
	FetchedAt time.Time
	FromCache bool
	Headers   []string
	Sites     []model.Site
	Located   int        // rows with coordinates
	Missing   int        // rows whose article has no coordinates, or no article
	Failed    int        // rows whose lookup errored
	Errors    []RowError // one per failed row
}

// Scrape fetches the list article, parses its site table and resolves every
// row's coordinates. Lookup failures never abort the scrape.
func (s *Scraper) Scrape(ctx context.Context) (*ScrapeResult, error) {
	articleURL := s.config.Source.ArticleURL()

	// 1. Fetch article
	page, err := s.fetcher.FetchPage(ctx, articleURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", articleURL, err)
	}

	// 2. Extract table
	table, err := extract.ParseSiteTable(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("extract table: %w", err)
	}
	sites := table.Sites()

	// 3. Honour the crawl delay for the API host
	s.applyCrawlDelay(ctx, articleURL)

	// 4. Resolve coordinates concurrently
	results := s.enricher.Enrich(ctx, sites)

	out := &ScrapeResult{
		SourceURL: articleURL,
		FetchedAt: time.Now().UTC(),
		FromCache: page.FromCache,
		Headers:   table.Headers,
		Sites:     make([]model.Site, len(results)),
	}
	for i, r := range results {
		out.Sites[i] = r.Site
		switch {
		case r.Error != nil:
			out.Failed++
			out.Errors = append(out.Errors, RowError{Index: r.Index, Site: r.Site.Site, Err: r.Error})
		case r.Site.HasLocation():
			out.Located++
		default:
			out.Missing++
		}
	}

	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("scrape interrupted: %w", err)
	}
	return out, nil
}

func (s *Scraper) applyCrawlDelay(ctx context.Context, articleURL string) {
	robots := s.fetcher.Robots()
	limiter := s.enricher.Limiter()
	if robots == nil || limiter == nil {
		return
	}

	_, delay, err := robots.CanFetch(ctx, articleURL)
	if err != nil || delay <= 0 {
		return
	}
	api, err := url.Parse(s.resolver.Endpoint())
	if err != nil {
		return
	}
	limiter.ApplyCrawlDelay(api.Host, delay)
}
