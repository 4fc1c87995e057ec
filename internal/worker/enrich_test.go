package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/ppiankov/fossilmap/internal/model"
)

// mockResolver returns fixed coordinates per title
type mockResolver struct {
	mu     sync.Mutex
	points map[string]orb.Point
	fail   map[string]bool
	delay  time.Duration
	calls  []string
}

func (m *mockResolver) Resolve(ctx context.Context, title string) (*orb.Point, error) {
	m.mu.Lock()
	m.calls = append(m.calls, title)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.fail[title] {
		return nil, errors.New("lookup failed")
	}
	p, ok := m.points[title]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *mockResolver) Endpoint() string {
	return "https://en.wikipedia.org/w/api.php"
}

func TestEnricher_Enrich(t *testing.T) {
	resolver := &mockResolver{
		points: map[string]orb.Point{
			"Messel pit":    {8.75, 49.92},
			"Burgess Shale": {-116.47, 51.43},
		},
		fail: map[string]bool{"Broken page": true},
	}

	sites := []model.Site{
		{Site: "Messel pit", Article: "Messel pit"},
		{Site: "No link"},
		{Site: "Burgess Shale", Article: "Burgess Shale"},
		{Site: "Broken", Article: "Broken page"},
		{Site: "Uncharted", Article: "Uncharted"},
	}

	enricher := NewEnricher(resolver, 3, 0, 0)
	results := enricher.Enrich(context.Background(), sites)

	if len(results) != len(sites) {
		t.Fatalf("expected %d results, got %d", len(sites), len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
		if r.Site.Site != sites[i].Site {
			t.Errorf("result %d is %q, want %q", i, r.Site.Site, sites[i].Site)
		}
	}

	if loc := results[0].Site.Location; loc == nil || loc.Lat() != 49.92 {
		t.Errorf("expected Messel location, got %v", loc)
	}
	if results[1].Site.Location != nil || results[1].Error != nil {
		t.Errorf("row without link should be untouched: %+v", results[1])
	}
	if results[3].Error == nil {
		t.Error("expected lookup error for broken page")
	}
	if results[4].Site.Location != nil || results[4].Error != nil {
		t.Errorf("article without coordinates should have no location and no error: %+v", results[4])
	}

	if len(resolver.calls) != 4 {
		t.Errorf("expected 4 lookups, got %d", len(resolver.calls))
	}
}

func TestEnricher_Empty(t *testing.T) {
	enricher := NewEnricher(&mockResolver{}, 2, 0, 0)
	if results := enricher.Enrich(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestEnricher_Cancelled(t *testing.T) {
	resolver := &mockResolver{delay: time.Second}

	sites := make([]model.Site, 20)
	for i := range sites {
		sites[i] = model.Site{Site: "s", Article: "a"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	results := NewEnricher(resolver, 2, 0, 0).Enrich(ctx, sites)
	if time.Since(start) > 900*time.Millisecond {
		t.Error("expected enrichment to stop promptly on cancel")
	}

	if len(results) != len(sites) {
		t.Fatalf("expected a result for every site, got %d", len(results))
	}
	for _, r := range results {
		if r.Error == nil {
			t.Errorf("expected error for row %d after cancel", r.Index)
		}
	}
}

func TestEnricher_RateLimited(t *testing.T) {
	resolver := &mockResolver{points: map[string]orb.Point{}}
	enricher := NewEnricher(resolver, 4, 1000, 1)
	if enricher.Limiter() == nil {
		t.Fatal("expected a limiter")
	}

	sites := []model.Site{{Article: "a"}, {Article: "b"}, {Article: "c"}}
	results := enricher.Enrich(context.Background(), sites)
	for _, r := range results {
		if r.Error != nil {
			t.Errorf("unexpected error: %v", r.Error)
		}
	}

	if NewEnricher(resolver, 1, 0, 0).Limiter() != nil {
		t.Error("expected no limiter for 0 rps")
	}
}

func TestEnrichResult_GetError(t *testing.T) {
	r := &EnrichResult{}
	if r.GetError() != nil {
		t.Error("expected nil error")
	}
	want := errors.New("boom")
	r.Error = want
	if r.GetError() != want {
		t.Errorf("expected %v, got %v", want, r.GetError())
	}
}
