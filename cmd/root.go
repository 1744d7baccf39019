package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/user/regnav/pkg/adk"
	"github.com/user/regnav/pkg/config"
	"github.com/user/regnav/pkg/engine"
	"github.com/user/regnav/pkg/logger"
	"github.com/user/regnav/pkg/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "regnav",
	Short: "Regulatory readiness evaluator for FinTech license applications",
	Long: `regnav evaluates a business plan, compliance policy and legal structure
against a catalogue of regulatory requirements. An LLM extracts evidence,
deterministic rules correct it, and the result is a transparent weighted
score with remediation guidance and highlight instructions per document.`,
	SilenceUsage: true,
}

var (
	DebugMode    bool
	catalogueDir string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&catalogueDir, "catalogue", "", "Catalogue directory (overrides config)")
}

// loadConfig reads the user config and applies command-line overrides
func loadConfig() (*config.Config, hclog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", engine.ErrConfiguration, err)
	}
	if catalogueDir != "" {
		cfg.CatalogueDir = catalogueDir
	}
	return cfg, logger.NewLogger(cfg, "regnav", DebugMode), nil
}

func loadCatalogue(cfg *config.Config, log hclog.Logger) (*engine.Catalogue, error) {
	cat, err := engine.LoadCatalogue(cfg.CatalogueDir)
	if err != nil {
		return nil, err
	}
	log.Debug("catalogue loaded", "dir", cfg.CatalogueDir, "requirements", len(cat.IDs()))
	return cat, nil
}

// buildPipeline wires the catalogue, the configured LLM backend and metrics.
// The returned func releases the backend.
func buildPipeline(ctx context.Context, cfg *config.Config, log hclog.Logger) (*pipeline.Pipeline, *pipeline.Metrics, func(), error) {
	cat, err := loadCatalogue(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	providerName := cfg.SelectedProvider
	apiKey := cfg.GetAPIKey(providerName)
	if apiKey == "" {
		return nil, nil, nil, fmt.Errorf("%w: no API key for provider %s", engine.ErrConfiguration, providerName)
	}

	llm, err := adk.NewProvider(ctx, providerName, apiKey, cfg.SelectedModel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", engine.ErrConfiguration, err)
	}
	release := func() {}
	if closer, ok := llm.(interface{ Close() }); ok {
		release = closer.Close
	}
	log.Debug("findings provider ready", "provider", providerName, "model", cfg.SelectedModel)

	metrics := pipeline.NewMetrics()
	p := pipeline.New(cat, adk.NewFindingsAgent(llm, log.Named("adk")),
		pipeline.WithLogger(log.Named("pipeline")),
		pipeline.WithMetrics(metrics),
		pipeline.WithTimeout(cfg.ProviderTimeout),
	)
	return p, metrics, release, nil
}

// explain prints a hint for the error category before the error is returned
func explain(err error) error {
	switch {
	case errors.Is(err, engine.ErrConfiguration):
		fmt.Fprintln(os.Stderr, "Hint: check the catalogue directory and run 'regnav config setup' to configure a provider.")
	case errors.Is(err, engine.ErrIngestion):
		fmt.Fprintln(os.Stderr, "Hint: input files must contain extracted text, e.g. from 'pdftotext -layout file.pdf'.")
	case errors.Is(err, engine.ErrProvider):
		fmt.Fprintln(os.Stderr, "Hint: the findings provider failed; no report was produced. Retry or try another model.")
	}
	return err
}
