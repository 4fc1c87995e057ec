package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/fossilmap/internal/model"
)

// Summary is the outcome of a summary request, including soft failures
type Summary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
	StrictEvidence bool     `json:"strict_evidence"`
	Text           string   `json:"text"`
	CitedURLs      []string `json:"cited_urls,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Summarizer wraps a provider; with no provider it is a no-op
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer for the configured provider
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the provider name, "" when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// EvidenceURLs returns the article URLs of the sites listed in the prompt
func (s *Summarizer) EvidenceURLs(sites []model.Site) []string {
	source := model.SourceConfig{BaseURL: s.config.SourceBaseURL}
	seen := make(map[string]bool)
	var urls []string
	for i, site := range sites {
		if i >= maxPromptSites {
			break
		}
		if site.Article == "" {
			continue
		}
		u := source.PageURL(site.Article)
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}

// GenerateSummary describes sel. It returns nil when disabled. Provider
// failures are reported as warnings on the summary, not as errors.
func (s *Summarizer) GenerateSummary(ctx context.Context, sel Selection) (*Summary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &Summary{
			Enabled:        false,
			Provider:       s.provider.Name(),
			StrictEvidence: s.config.StrictEvidence,
			Warnings:       []string{fmt.Sprintf("LLM provider %s is not available", s.provider.Name())},
		}, nil
	}

	evidenceURLs := s.EvidenceURLs(sel.Sites)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Selection:    sel,
		EvidenceURLs: evidenceURLs,
		Model:        s.config.Model,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		return &Summary{
			Enabled:        true,
			Provider:       s.provider.Name(),
			Model:          s.config.Model,
			StrictEvidence: s.config.StrictEvidence,
			Warnings:       []string{fmt.Sprintf("Summary generation failed: %v", err)},
		}, nil
	}

	summary := &Summary{
		Enabled:        true,
		Provider:       s.provider.Name(),
		Model:          resp.Model,
		StrictEvidence: s.config.StrictEvidence,
		Text:           resp.Summary,
		CitedURLs:      resp.CitedURLs,
	}
	if resp.TokensUsed > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	}
	if s.config.StrictEvidence && len(resp.CitedURLs) > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Verified %d citations against the selection", len(resp.CitedURLs)))
	}
	return summary, nil
}

// RenderMarkdown renders a summary for terminal or file output
func RenderMarkdown(summary *Summary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Selection Summary\n\n")
	b.WriteString("> GENERATED CONTENT: written by a language model from the rows below the map.\n")
	b.WriteString("> The selection itself is determined independently by the filters.\n\n")
	fmt.Fprintf(&b, "- **Provider**: %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "- **Model**: %s\n", summary.Model)
	}
	fmt.Fprintf(&b, "- **Strict Evidence Mode**: %t\n\n", summary.StrictEvidence)

	if summary.Text == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.Text)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

var urlPattern = regexp.MustCompile(`https?://[^\s\)\]>"]+`)

// extractURLs returns the distinct URLs cited in text
func extractURLs(text string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, url := range urlPattern.FindAllString(text, -1) {
		url = strings.TrimRight(url, ".,;:!?")
		if !seen[url] {
			seen[url] = true
			unique = append(unique, url)
		}
	}
	return unique
}

// checkCitations fails on the first cited URL outside allowed
func checkCitations(cited, allowed []string) error {
	allow := make(map[string]bool, len(allowed))
	for _, u := range allowed {
		allow[u] = true
	}
	for _, u := range cited {
		if !allow[u] {
			return fmt.Errorf("citation leak: LLM cited disallowed URL: %s", u)
		}
	}
	return nil
}
