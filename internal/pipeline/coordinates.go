package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/paulmach/orb"
	"github.com/ppiankov/fossilmap/internal/cache"
	"github.com/ppiankov/fossilmap/internal/model"
)

// CoordinateResolver looks up article coordinates through the MediaWiki
// action API (prop=coordinates)
type CoordinateResolver struct {
	fetcher  *Fetcher
	apiURL   string
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewCoordinateResolver creates a resolver against apiURL
func NewCoordinateResolver(fetcher *Fetcher, apiURL string) *CoordinateResolver {
	return &CoordinateResolver{
		fetcher: fetcher,
		apiURL:  apiURL,
		cache:   cache.Nop{},
	}
}

// WithCache caches lookups, including articles without coordinates
func (r *CoordinateResolver) WithCache(c cache.Cache, ttl time.Duration) *CoordinateResolver {
	r.cache = c
	r.cacheTTL = ttl
	return r
}

// Endpoint returns the API URL, used as the rate limiting key
func (r *CoordinateResolver) Endpoint() string {
	return r.apiURL
}

type coordsEntry struct {
	Found bool    `json:"found"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type coordsResponse struct {
	Query struct {
		Pages []struct {
			Title       string `json:"title"`
			Missing     bool   `json:"missing"`
			Invalid     bool   `json:"invalid"`
			Coordinates []struct {
				Lat     float64 `json:"lat"`
				Lon     float64 `json:"lon"`
				Primary bool    `json:"primary"`
				Globe   string  `json:"globe"`
			} `json:"coordinates"`
		} `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Resolve returns the article's primary coordinates, or nil when the article
// is missing or carries none
func (r *CoordinateResolver) Resolve(ctx context.Context, title string) (*orb.Point, error) {
	key := cache.Key(cache.NamespaceCoords, r.apiURL+"|"+title)
	var entry coordsEntry
	if cache.GetJSON(r.cache, key, &entry) {
		if !entry.Found {
			return nil, nil
		}
		return model.NewPoint(entry.Lat, entry.Lon), nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "coordinates")
	params.Set("titles", title)
	params.Set("redirects", "1")
	params.Set("format", "json")
	params.Set("formatversion", "2")

	result, err := r.fetcher.FetchWithRetry(ctx, r.apiURL+"?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}

	point, err := parseCoordinates(result.Body)
	if err != nil {
		return nil, err
	}

	entry = coordsEntry{Found: point != nil}
	if point != nil {
		entry.Lat, entry.Lon = point.Lat(), point.Lon()
	}
	_ = cache.SetJSON(r.cache, key, entry, r.cacheTTL)
	return point, nil
}

func parseCoordinates(body []byte) (*orb.Point, error) {
	var resp coordsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode coordinates: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("api error %s: %s", resp.Error.Code, resp.Error.Info)
	}

	for _, page := range resp.Query.Pages {
		if page.Missing || page.Invalid {
			continue
		}
		var fallback *orb.Point
		for _, c := range page.Coordinates {
			if c.Globe != "" && c.Globe != "earth" {
				continue
			}
			if c.Primary {
				return model.NewPoint(c.Lat, c.Lon), nil
			}
			if fallback == nil {
				fallback = model.NewPoint(c.Lat, c.Lon)
			}
		}
		if fallback != nil {
			return fallback, nil
		}
	}
	return nil, nil
}
