package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/kicad/plot"
)

var templateBack bool

var templateCmd = &cobra.Command{
	Use:   "template <footprint.kicad_mod> <output.svg>",
	Short: "Create a template from a KiCad footprint",
	Long: `Plot the copper, courtyard, fabrication, comment, edge and silkscreen
layers of a KiCad footprint into an SVG that can be used as a master drawing.
The document is sized to the footprint and carries a 1 mm origin marker.

Examples:
  ott template R_0805_2012Metric.kicad_mod R_0805.svg
  ott template --back SOIC-8.kicad_mod SOIC-8.back.svg`,
	Args: cobra.ExactArgs(2),
	RunE: runTemplate,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().BoolVar(&templateBack, "back", false, "plot the back side (mirrored)")
}

func runTemplate(cmd *cobra.Command, args []string) error {
	side := plot.Front
	if templateBack {
		side = plot.Back
	}
	if err := plot.NewPlotter().PlotFile(args[0], args[1], side); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%s side)\n", args[1], side)
	return nil
}
