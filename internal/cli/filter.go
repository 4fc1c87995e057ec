package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ppiankov/fossilmap/internal/dataset"
	"github.com/ppiankov/fossilmap/internal/filter"
	"github.com/ppiankov/fossilmap/internal/llm"
	"github.com/ppiankov/fossilmap/internal/model"
	"github.com/spf13/cobra"
)

var (
	filterFrom    string
	filterTo      string
	filterCountry string
	filterNote    string
	filterSite    string
	filterGeoJSON bool
	filterSummary bool
)

// filterCmd represents the filter command
var filterCmd = &cobra.Command{
	Use:   "filter <csv>",
	Short: "Print the sites that match a set of filters",
	Long: `Filter applies the dashboard filters to a dataset and prints the matching
sites as a table or as GeoJSON.

Periods are given by name or timeline index (0 Precambrian .. 16 Holocene).
Text filters are comma separated and match case-insensitively; a site passes
when it matches any value of every filter that is set. Values are split on
every comma and trimmed, so "Denmark,USA" and "Denmark, USA" both mean two
countries. A value that itself contains a comma cannot be searched for.

Example:
  fossilmap filter fossil_sites.csv --from Jurassic --to Cretaceous
  fossilmap filter fossil_sites.csv --country "Denmark, USA, Brazil"
  fossilmap filter fossil_sites.csv --note dinosaur --geojson > dinos.geojson`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringVar(&filterFrom, "from", filter.First.String(), "oldest period (name or index)")
	filterCmd.Flags().StringVar(&filterTo, "to", filter.Last.String(), "youngest period (name or index)")
	filterCmd.Flags().StringVar(&filterCountry, "country", "", "comma separated countries")
	filterCmd.Flags().StringVar(&filterNote, "note", "", "comma separated noteworthy finds")
	filterCmd.Flags().StringVar(&filterSite, "site", "", "comma separated site names")
	filterCmd.Flags().BoolVar(&filterGeoJSON, "geojson", false, "print GeoJSON instead of a table")
	filterCmd.Flags().BoolVar(&filterSummary, "summary", false, "append an LLM summary of the selection (requires llm.provider)")
}

func runFilter(cmd *cobra.Command, args []string) error {
	sites, err := dataset.Load(args[0])
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	query, err := filterQuery()
	if err != nil {
		return err
	}
	restrictions := filter.Build(query)
	matched := filter.Apply(sites, restrictions)

	out := cmd.OutOrStdout()
	if filterGeoJSON {
		body, err := dataset.FeatureCollection(matched).MarshalJSON()
		if err != nil {
			return fmt.Errorf("encode geojson: %w", err)
		}
		fmt.Fprintln(out, string(body))
	} else if err := writeSiteTable(out, matched); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ %d of %d sites match\n", len(matched), len(sites))

	if !filterSummary {
		return nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return printSummary(cmd.Context(), out, cfg, llm.Selection{
		Restrictions: restrictions,
		Sites:        matched,
		Total:        len(sites),
	})
}

func filterQuery() (filter.Query, error) {
	from, err := filter.LookupPeriod(filterFrom)
	if err != nil {
		return filter.Query{}, fmt.Errorf("--from: %w", err)
	}
	to, err := filter.LookupPeriod(filterTo)
	if err != nil {
		return filter.Query{}, fmt.Errorf("--to: %w", err)
	}
	return filter.Query{
		From:           from,
		To:             to,
		Country:        filterCountry,
		Noteworthiness: filterNote,
		Site:           filterSite,
	}, nil
}

func writeSiteTable(w io.Writer, sites []model.Site) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SITE\tCOUNTRY\tAGE\tLAT\tLON")
	for _, s := range sites {
		lat, lon := dataset.NA, dataset.NA
		if s.HasLocation() {
			lat = fmt.Sprintf("%.4f", s.Lat())
			lon = fmt.Sprintf("%.4f", s.Lon())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Site, s.Country, s.Age, lat, lon)
	}
	return tw.Flush()
}

func printSummary(ctx context.Context, w io.Writer, cfg *model.Config, sel llm.Selection) error {
	summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg))
	if err != nil {
		return fmt.Errorf("configure summaries: %w", err)
	}
	if !summarizer.IsEnabled() {
		return fmt.Errorf("summaries are disabled: set llm.provider (openai or ollama)")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.LLM.Timeout+5)*time.Second)
	defer cancel()

	summary, err := summarizer.GenerateSummary(ctx, sel)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	if !summary.Enabled {
		for _, warning := range summary.Warnings {
			fmt.Fprintf(os.Stderr, "✗ %s\n", warning)
		}
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, llm.RenderMarkdown(summary))
	return nil
}
