package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <family>...",
	Short: "Generate templates for one or more families",
	Long: `Derive one template per parameter set of each family and write it to
the output directory. A variant that cannot be produced is reported and the
sweep continues; the exit status is non-zero if any variant was skipped or
failed.

Examples:
  ott generate dip
  ott generate --all --out templates --inkscape
  ott generate passive --kind capacitor --size 0603 --size 0805
  ott generate soic --table sizes.xlsx --catalog catalog.bleve --history runs.db`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

func addGenerateFlags(c *cobra.Command) {
	c.Flags().BoolVar(&genAll, "all", false, "generate every family")
	c.Flags().StringVar(&genTable, "table", "", "read parameter tables from a spreadsheet (one sheet per family)")
	c.Flags().StringSliceVar(&genSizes, "size", nil, "passive size codes to generate (default all)")
	c.Flags().StringSliceVar(&genKinds, "kind", nil, "passive kinds to generate (default all)")
	c.Flags().StringVarP(&genOut, "out", "o", "", "output directory (default from config)")
	c.Flags().BoolVar(&genInkscape, "inkscape", false, "fit the drawing area with Inkscape after export")
	c.Flags().BoolVar(&genManifest, "manifest", false, "detect name collisions across runs")
	c.Flags().StringVar(&genCatalog, "catalog", "", "index outputs in a search catalog at this path")
	c.Flags().StringVar(&genHistory, "history", "", "record the sweep in a history database")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	families, err := selectFamilies(args)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	jobs, err := buildJobs(cfg, families)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p, err := openPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Printf("Generating %v into %s\n", families, p.outDir)
	report, err := p.runner(printResult(os.Stdout)).Run(ctx, jobs...)
	fmt.Printf("%s in %s\n", report.Summary(), report.Finished.Sub(report.Started).Round(time.Millisecond))
	if err != nil {
		return err
	}
	return report.Err()
}
