package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceTemplates/internal/logger"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/family"
)

var (
	// Global flags
	verbose    bool
	logFormat  string
	configPath string
	configGlob string
)

var log = logger.ForComponent("cli")

var rootCmd = &cobra.Command{
	Use:   "ott",
	Short: "OpenTraceTemplates - parametric footprint template generator",
	Long: `OpenTraceTemplates (ott) derives footprint drawing templates from
hand-drawn master SVGs: one file per package variant, with pins replicated,
bodies resized and colours rewritten.

Examples:
  ott generate dip soic                 # Built-in tables for two families
  ott generate --all --out templates    # Every family
  ott generate passive --kind resistor --size 0805
  ott list soic                         # Show a family table
  ott template R_0805.kicad_mod R_0805.svg
  ott search catalog.bleve 'family:soic pins:>=14'`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := logger.DefaultConfig()
		cfg.Format = logFormat
		if verbose {
			cfg.Level = slog.LevelDebug
		}
		logger.Init(cfg)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "family configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&configGlob, "config-glob", "", "load every configuration file matching a glob, e.g. 'families/**/*.yaml'")
}

// loadConfig returns the configuration selected by the global flags and
// the files it was read from.
func loadConfig() (*family.Config, []string, error) {
	cfg := family.DefaultConfig()
	var files []string

	if configGlob != "" {
		globbed, matches, err := family.LoadConfigGlob(configGlob)
		if err != nil {
			return nil, nil, err
		}
		if len(matches) == 0 {
			log.Warn("config glob matched nothing", "pattern", configGlob)
		}
		cfg, files = globbed, matches
	}
	if configPath != "" {
		if err := cfg.Merge(configPath); err != nil {
			return nil, nil, err
		}
		files = append(files, configPath)
	}
	for _, f := range files {
		log.Debug("loaded config", "path", f)
	}
	return cfg, files, nil
}
