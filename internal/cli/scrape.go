package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppiankov/fossilmap/internal/cache"
	"github.com/ppiankov/fossilmap/internal/dataset"
	"github.com/ppiankov/fossilmap/internal/model"
	"github.com/ppiankov/fossilmap/internal/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	scrapeOut         string
	scrapeTimeout     time.Duration
	scrapeUserAgent   string
	scrapeConcurrency int
	scrapeRPS         float64
	scrapeNoCache     bool
	scrapeInsecure    bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the list of fossil sites into a CSV file",
	Long: `Scrape fetches Wikipedia's "List of fossil sites" article, extracts the
site table and looks up the coordinates of every linked article.

Rows whose article has no coordinates are kept with NA coordinates.

Example:
  fossilmap scrape
  fossilmap scrape --out sites.csv --concurrency 8
  fossilmap scrape --no-cache --timeout 20m`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeOut, "out", "", "output CSV path (default: dataset.raw_path)")
	scrapeCmd.Flags().DurationVar(&scrapeTimeout, "timeout", 10*time.Minute, "overall scrape timeout")
	scrapeCmd.Flags().StringVar(&scrapeUserAgent, "ua", "", "HTTP User-Agent (default: http.user_agent)")
	scrapeCmd.Flags().IntVar(&scrapeConcurrency, "concurrency", 0, "coordinate lookup workers (default: concurrency.workers)")
	scrapeCmd.Flags().Float64Var(&scrapeRPS, "rps", 0, "requests per second per host (default: rate_limiting.requests_per_second)")
	scrapeCmd.Flags().BoolVar(&scrapeNoCache, "no-cache", false, "disable cache (force fresh fetch)")
	scrapeCmd.Flags().BoolVar(&scrapeInsecure, "insecure", false, "skip TLS certificate verification")
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyScrapeFlags(cmd, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, scrapeTimeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Scraping: %s\n", cfg.Source.ArticleURL())
		fmt.Fprintf(os.Stderr, "Workers: %d, rate: %.1f req/s\n", cfg.Concurrency.Workers, cfg.RateLimiting.RequestsPerSecond)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", scrapeTimeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	scraper := pipeline.NewScraper(cfg, cache.New(cfg.Cache))
	start := time.Now()

	result, scrapeErr := scraper.Scrape(ctx)
	if scrapeErr != nil {
		interrupted := errors.Is(scrapeErr, context.Canceled) || errors.Is(scrapeErr, context.DeadlineExceeded)
		if result == nil || !interrupted {
			return fmt.Errorf("scrape failed: %w", scrapeErr)
		}
		fmt.Fprintf(os.Stderr, "✗ %v, writing partial results\n", scrapeErr)
	}

	if err := dataset.WriteFile(cfg.Dataset.RawPath, result.Sites); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	printScrapeSummary(result, cfg.Dataset.RawPath, time.Since(start), cfg.Output.Verbose)
	return scrapeErr
}

// applyScrapeFlags overrides configuration with explicitly set flags
func applyScrapeFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Dataset.RawPath = scrapeOut
	}
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = scrapeUserAgent
	}
	if flags.Changed("concurrency") && scrapeConcurrency > 0 {
		cfg.Concurrency.Workers = scrapeConcurrency
	}
	if flags.Changed("rps") && scrapeRPS > 0 {
		cfg.RateLimiting.RequestsPerSecond = scrapeRPS
	}
	if scrapeNoCache {
		cfg.Cache.Enabled = false
	}
	if scrapeInsecure {
		cfg.HTTP.InsecureTLS = true
	}
}

func printScrapeSummary(result *pipeline.ScrapeResult, path string, elapsed time.Duration, verbose bool) {
	p := message.NewPrinter(language.English)

	fmt.Fprintln(os.Stderr, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(os.Stderr, "  Scrape Summary")
	fmt.Fprintln(os.Stderr, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "Source:  %s", result.SourceURL)
	if result.FromCache {
		fmt.Fprint(os.Stderr, " (cached)")
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Columns: %d\n", len(result.Headers))
	p.Fprintf(os.Stderr, "✓ %d sites written to %s\n", len(result.Sites), path)
	p.Fprintf(os.Stderr, "✓ %d sites with coordinates\n", result.Located)
	if result.Missing > 0 {
		p.Fprintf(os.Stderr, "  %d sites without coordinates (NA)\n", result.Missing)
	}
	if result.Failed > 0 {
		p.Fprintf(os.Stderr, "✗ %d coordinate lookups failed\n", result.Failed)
		if verbose {
			for _, rowErr := range result.Errors {
				fmt.Fprintf(os.Stderr, "    %v\n", rowErr)
			}
		}
	}
	fmt.Fprintf(os.Stderr, "Elapsed: %v\n", elapsed.Round(time.Millisecond))
	fmt.Fprintln(os.Stderr)
}
