package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/export"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle <directory> <archive>",
	Short: "Archive generated templates",
	Long: `Pack every template in a directory into one archive. The format
follows the archive extension (.zip, .tar.gz, .tar.xz, ...).

Examples:
  ott bundle export templates.zip`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := export.Bundle(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d files to %s\n", len(files), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
}
