// Package llm writes optional natural-language descriptions of a map
// selection. Summaries never influence which sites are selected.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/fossilmap/internal/filter"
	"github.com/ppiankov/fossilmap/internal/model"
)

// maxPromptSites caps how many matching sites are listed in a prompt
const maxPromptSites = 30

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize describes a selection with strict evidence mode
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Selection is the set of sites currently shown on the map
type Selection struct {
	Restrictions []filter.Criterion
	Sites        []model.Site // passing sites, table order
	Total        int          // size of the whole dataset
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	Selection Selection

	// EvidenceURLs is the allowlist of article URLs the LLM can cite
	EvidenceURLs []string

	// Prompt overrides BuildPrompt when set
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string // URLs the LLM actually cited
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictEvidence rejects summaries citing URLs outside the selection
	StrictEvidence bool

	// MaxTokens for response generation
	MaxTokens int

	// SourceBaseURL turns article titles into citable URLs
	SourceBaseURL string

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Timeout:        30,
		StrictEvidence: true,
		MaxTokens:      600,
		SourceBaseURL:  "https://en.wikipedia.org",
	}
}

// BuildPrompt constructs the default prompt for a selection
func BuildPrompt(sel Selection, evidenceURLs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are describing a selection of fossil sites shown on a map. Describe only what the listed rows say.

RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. DO NOT add sites, dates or facts that are not in the rows below.
3. If the selection is empty, say so in one sentence.

Selection:
- Filters: %s
- Matching sites: %d of %d
`, joinURLs(evidenceURLs), describeRestrictions(sel.Restrictions), len(sel.Sites), sel.Total)

	b.WriteString("\nSites (site | country | continent | age | noteworthiness):\n")
	for i, s := range sel.Sites {
		if i >= maxPromptSites {
			fmt.Fprintf(&b, "... and %d more sites\n", len(sel.Sites)-maxPromptSites)
			break
		}
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n", s.Site, orDash(s.Country), orDash(s.Continent), orDash(s.Age), orDash(s.Noteworthiness))
	}

	b.WriteString("\nWrite a 3-4 sentence overview: which periods and regions dominate, and what the sites are known for.")
	return b.String()
}

// describeRestrictions renders criteria grouped by category in first-seen order
func describeRestrictions(restrictions []filter.Criterion) string {
	if len(restrictions) == 0 {
		return "none (all sites)"
	}

	var order []filter.Category
	values := make(map[filter.Category][]string)
	for _, c := range restrictions {
		if _, ok := values[c.Category]; !ok {
			order = append(order, c.Category)
		}
		values[c.Category] = append(values[c.Category], c.Value)
	}

	parts := make([]string, 0, len(order))
	for _, cat := range order {
		parts = append(parts, fmt.Sprintf("%s in [%s]", cat, strings.Join(values[cat], ", ")))
	}
	return strings.Join(parts, "; ")
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No article URLs available)"
	}
	var b strings.Builder
	for i, url := range urls {
		if i >= 20 {
			fmt.Fprintf(&b, "\n... and %d more URLs", len(urls)-20)
			break
		}
		fmt.Fprintf(&b, "\n- %s", url)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
