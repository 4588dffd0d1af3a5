package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/catalog"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <catalog> <query>...",
	Short: "Search a template catalog",
	Long: `Search the catalog written by 'ott generate --catalog'. Queries use the
query string syntax: field:value terms, numeric ranges and free text.

Examples:
  ott search catalog.bleve family:soic
  ott search catalog.bleve 'family:dip pins:>=24'
  ott search catalog.bleve 0805`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of hits")
}

func runSearch(cmd *cobra.Command, args []string) error {
	c, err := catalog.Open(args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	hits, err := c.Search(strings.Join(args[1:], " "), searchLimit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("No matches")
		return nil
	}
	for _, h := range hits {
		fmt.Printf("%6.3f  %-8s %s\n", h.Score, h.Family, h.Path)
	}
	return nil
}
