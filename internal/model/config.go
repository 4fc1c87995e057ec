package model

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the complete fossilmap configuration
type Config struct {
	Source       SourceConfig       `yaml:"source" mapstructure:"source"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Dataset      DatasetConfig      `yaml:"dataset" mapstructure:"dataset"`
	Dashboard    DashboardConfig    `yaml:"dashboard" mapstructure:"dashboard"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// SourceConfig locates the list article and the API used for coordinates
type SourceConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"` // e.g. https://en.wikipedia.org
	Article string `yaml:"article" mapstructure:"article"`   // Page title of the site list
}

// ArticleURL returns the full URL of the list article
func (s SourceConfig) ArticleURL() string {
	return s.BaseURL + "/wiki/" + s.Article
}

// PageURL returns the URL of the article with the given title
func (s SourceConfig) PageURL(title string) string {
	return s.BaseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// APIURL returns the MediaWiki action API endpoint
func (s SourceConfig) APIURL() string {
	return s.BaseURL + "/w/api.php"
}

// HTTPConfig controls outbound requests
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the memory + disk cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls the coordinate lookup workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig controls per-domain request rates
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// DatasetConfig names the CSV files
type DatasetConfig struct {
	RawPath string `yaml:"raw_path" mapstructure:"raw_path"` // scrape output
	Path    string `yaml:"path" mapstructure:"path"`         // dashboard input
}

// DashboardConfig controls the map server
type DashboardConfig struct {
	Addr        string `yaml:"addr" mapstructure:"addr"`
	MapStyle    string `yaml:"map_style" mapstructure:"map_style"`
	PointColour string `yaml:"point_colour" mapstructure:"point_colour"`
	LabelColour string `yaml:"label_colour" mapstructure:"label_colour"`
}

// LLMConfig controls optional selection summaries
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model          string `yaml:"model" mapstructure:"model"`
	APIKey         string `yaml:"-" mapstructure:"api_key"`
	BaseURL        string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout        int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	StrictEvidence bool   `yaml:"strict_evidence" mapstructure:"strict_evidence"`
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL: "https://en.wikipedia.org",
			Article: "List_of_fossil_sites",
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "fossilmap/0.1 (+https://github.com/ppiankov/fossilmap)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Dataset: DatasetConfig{
			RawPath: "fossil_sites_raw.csv",
			Path:    "fossil_sites.csv",
		},
		Dashboard: DashboardConfig{
			Addr:        ":8050",
			MapStyle:    "stamen-terrain",
			PointColour: "#FF00FF",
			LabelColour: "#FF00FF",
		},
		LLM: LLMConfig{
			Timeout:        30,
			StrictEvidence: true,
			MaxTokens:      600,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fossilmap-cache"
	}
	return filepath.Join(home, ".fossilmap", "cache")
}
