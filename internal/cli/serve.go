package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/fossilmap/internal/dashboard"
	"github.com/ppiankov/fossilmap/internal/dataset"
	"github.com/ppiankov/fossilmap/internal/llm"
	"github.com/ppiankov/fossilmap/internal/model"
	"github.com/spf13/cobra"
)

var (
	serveAddr        string
	serveStyle       string
	servePointColour string
	serveLabelColour string
	serveLLM         string
	serveLLMModel    string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [csv]",
	Short: "Serve the interactive fossil site map",
	Long: `Serve loads a dataset and starts the map dashboard.

The dashboard filters sites by geological period, country, noteworthy finds
and site name, and lets the map style and marker colours be changed.

Example:
  fossilmap serve
  fossilmap serve fossil_sites.csv --addr :9000
  fossilmap serve --llm ollama --llm-model llama3.2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: dashboard.addr)")
	serveCmd.Flags().StringVar(&serveStyle, "style", "", "default map style")
	serveCmd.Flags().StringVar(&servePointColour, "point-colour", "", "default point colour (#RRGGBB)")
	serveCmd.Flags().StringVar(&serveLabelColour, "label-colour", "", "default label colour (#RRGGBB)")
	serveCmd.Flags().StringVar(&serveLLM, "llm", "", "LLM provider for selection summaries (openai, ollama)")
	serveCmd.Flags().StringVar(&serveLLMModel, "llm-model", "", "LLM model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cmd, cfg)

	path := cfg.Dataset.Path
	if len(args) == 1 {
		path = args[0]
	}

	sites, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg))
	if err != nil {
		return fmt.Errorf("configure summaries: %w", err)
	}

	if !cfg.Output.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := dashboard.NewServer(sites, cfg.Dashboard, summarizer)
	if err != nil {
		return fmt.Errorf("create dashboard: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d sites from %s\n", len(sites), path)
	if summarizer.IsEnabled() {
		fmt.Fprintf(os.Stderr, "✓ Selection summaries via %s\n", summarizer.ProviderName())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, cfg.Dashboard.Addr)
}

// applyServeFlags overrides configuration with explicitly set flags
func applyServeFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Dashboard.Addr = serveAddr
	}
	if flags.Changed("style") {
		cfg.Dashboard.MapStyle = serveStyle
	}
	if flags.Changed("point-colour") {
		cfg.Dashboard.PointColour = servePointColour
		// a lone point colour also recolours labels, as in the dashboard
		if !flags.Changed("label-colour") {
			cfg.Dashboard.LabelColour = servePointColour
		}
	}
	if flags.Changed("label-colour") {
		cfg.Dashboard.LabelColour = serveLabelColour
	}
	if flags.Changed("llm") {
		cfg.LLM.Provider = serveLLM
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = serveLLMModel
	}
	applyProviderEnv(cfg)
}
