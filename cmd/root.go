package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goyney/irigoyen.dev/internal/config"
	"github.com/goyney/irigoyen.dev/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "irigoyen",
	Short: "Personal site of Michael Irigoyen",
	Long: `irigoyen serves the irigoyen.dev portfolio: a single page with an
adaptive header that follows the visitor's scroll position, a markdown blog,
a contact form and a small privacy-conscious analytics dashboard.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "irigoyen.yml", "config file path")
}

// loadConfig loads and validates the config, and builds the logger it
// describes.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	slog.SetDefault(logger)
	return cfg, logger, nil
}
