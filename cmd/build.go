package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goyney/irigoyen.dev/internal/assets"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fingerprint static assets into the output directory",
	Long: `Copies top-level files from assets.source_dir unchanged, writes every file in
its subdirectories under a content-hash name (fonts keep their names), scopes
class names in *.module.css files and records the result in manifest.json.
Set BUILD_ID for release class names; the serve command reads the manifest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		m, err := assets.Build(cmd.Context(), assets.Options{
			SourceDir: cfg.Assets.SourceDir,
			OutputDir: cfg.Assets.OutputDir,
			BuildID:   cfg.BuildID,
			Reporter:  assets.NewReporter(),
		})
		if err != nil {
			return fmt.Errorf("building assets: %w", err)
		}
		logger.Info("assets.built",
			"version", m.Version,
			"files", len(m.Files),
			"copied", len(m.Copied),
			"preload", len(m.Preload),
			"output", cfg.Assets.OutputDir,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
