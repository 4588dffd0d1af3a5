package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/export"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/family"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/tables"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

var (
	listXLSX   string
	listConfig bool
)

var listCmd = &cobra.Command{
	Use:   "list [family]",
	Short: "List families or the parameter table of one family",
	Long: `Without arguments: lists every family with its master and table size.
With a family: lists the output names and parameters of its table.

Examples:
  ott list
  ott list radial
  ott list --xlsx tables.xlsx      # Write all tables to a workbook for editing
  ott list --dump-config > ott.yaml    # Dump the effective configuration`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listXLSX, "xlsx", "", "write the tables to a spreadsheet")
	listCmd.Flags().BoolVar(&listConfig, "dump-config", false, "print the effective configuration as YAML")
	listCmd.Flags().StringSliceVar(&genKinds, "kind", nil, "passive kinds (default all)")
	listCmd.Flags().StringSliceVar(&genSizes, "size", nil, "passive size codes (default all)")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if listConfig {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	opts := family.Options{Kinds: genKinds, Sizes: genSizes}
	names := family.Names()
	if len(args) == 1 {
		names = args
	}

	all := make(map[string][]template.ParameterSet)
	gens := make([]family.Generator, 0, len(names))
	for _, name := range names {
		gen, err := family.New(name, cfg, opts)
		if err != nil {
			return err
		}
		gens = append(gens, gen)
		all[name] = gen.Parameters()
	}

	if listXLSX != "" {
		if err := tables.Save(listXLSX, all); err != nil {
			return err
		}
		fmt.Printf("Wrote %d tables to %s\n", len(all), listXLSX)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if len(args) == 0 {
		fmt.Fprintln(w, "FAMILY\tMASTER\tVARIANTS\tANCHORS")
		for _, gen := range gens {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", gen.Family(), gen.Master(), len(gen.Parameters()), len(gen.Registry()))
		}
		return nil
	}

	gen := gens[0]
	namer, err := export.NewNamer(gen.Naming())
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "NAME\tPARAMETERS")
	for _, ps := range gen.Parameters() {
		name, err := namer.Name(ps)
		if err != nil {
			name = "(" + err.Error() + ")"
		}
		fmt.Fprintf(w, "%s\t%s\n", name, ps)
	}
	return nil
}
