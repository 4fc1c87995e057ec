package worker

import (
	"context"
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/ppiankov/fossilmap/internal/model"
)

// Resolver looks up the coordinates of a Wikipedia article. A nil point with
// a nil error means the article has no coordinates.
type Resolver interface {
	Resolve(ctx context.Context, title string) (*orb.Point, error)
	Endpoint() string
}

// EnrichJob resolves the location of one table row
type EnrichJob struct {
	Index    int
	Site     model.Site
	Resolver Resolver
	Limiter  *Limiter
}

// Execute executes the lookup
func (j *EnrichJob) Execute(ctx context.Context) Result {
	result := &EnrichResult{Index: j.Index, Site: j.Site}
	if j.Site.Article == "" {
		return result
	}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Resolver.Endpoint()); err != nil {
			result.Error = fmt.Errorf("rate limit: %w", err)
			return result
		}
	}

	point, err := j.Resolver.Resolve(ctx, j.Site.Article)
	if err != nil {
		result.Error = fmt.Errorf("resolve %q: %w", j.Site.Article, err)
		return result
	}
	result.Site.Location = point
	return result
}

// EnrichResult is a row with its coordinates filled in when they were found
type EnrichResult struct {
	Index int
	Site  model.Site
	Error error
}

// GetError returns the lookup error, if any
func (r *EnrichResult) GetError() error {
	return r.Error
}

// Enricher resolves coordinates for many rows concurrently
type Enricher struct {
	resolver    Resolver
	concurrency int
	limiter     *Limiter
}

// NewEnricher creates a new enricher. requestsPerSecond <= 0 disables rate limiting.
func NewEnricher(resolver Resolver, concurrency int, requestsPerSecond float64, burst int) *Enricher {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}
	return &Enricher{
		resolver:    resolver,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// Limiter returns the enricher's limiter, nil when unlimited
func (e *Enricher) Limiter() *Limiter {
	return e.limiter
}

// Enrich resolves every site and returns the results in input order.
// Rows that were never processed because ctx ended carry ctx's error.
func (e *Enricher) Enrich(ctx context.Context, sites []model.Site) []*EnrichResult {
	if len(sites) == 0 {
		return []*EnrichResult{}
	}

	pool := NewPool(ctx, e.concurrency)
	pool.Start()

	go func() {
		for i, site := range sites {
			job := &EnrichJob{
				Index:    i,
				Site:     site,
				Resolver: e.resolver,
				Limiter:  e.limiter,
			}
			if !pool.Submit(job) {
				break
			}
		}
		pool.Close()
	}()

	results := make([]*EnrichResult, 0, len(sites))
	seen := make([]bool, len(sites))
	for r := range pool.Results() {
		res := r.(*EnrichResult)
		seen[res.Index] = true
		results = append(results, res)
	}

	for i, ok := range seen {
		if !ok {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results = append(results, &EnrichResult{Index: i, Site: sites[i], Error: err})
		}
	}

	sort.Slice(results, func(a, b int) bool {
		return results[a].Index < results[b].Index
	})
	return results
}
