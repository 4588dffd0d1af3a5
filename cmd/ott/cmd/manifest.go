package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/export"
)

var (
	manifestForget []string
	manifestPrune  bool
)

var manifestCmd = &cobra.Command{
	Use:   "manifest <output directory>",
	Short: "Inspect or release names recorded by 'generate --manifest'",
	Long: `List the output names recorded in the manifest of an output directory.

A name stays bound to the parameters that first produced it. After a table
or configuration edit, release the changed names with --forget, or drop
every entry whose file is gone with --prune.

Examples:
  ott manifest export
  ott manifest export --forget SOIC-8_3.90x4.90mm_P1.27mm.svg
  ott manifest export --prune`,
	Args: cobra.ExactArgs(1),
	RunE: runManifest,
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.Flags().StringSliceVar(&manifestForget, "forget", nil, "release these output names")
	manifestCmd.Flags().BoolVar(&manifestPrune, "prune", false, "release names whose file no longer exists")
}

func runManifest(cmd *cobra.Command, args []string) error {
	dir := args[0]
	path := filepath.Join(dir, manifestName)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no manifest in %s: %w", dir, err)
	}
	m, err := export.OpenManifest(path)
	if err != nil {
		return err
	}
	defer m.Close()

	for _, name := range manifestForget {
		if _, ok, err := m.Lookup(name); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%s is not recorded in the manifest", name)
		}
		if err := m.Forget(name); err != nil {
			return err
		}
		fmt.Printf("Released %s\n", name)
	}

	entries, err := m.Entries()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	if manifestPrune {
		kept := names[:0]
		for _, name := range names {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				kept = append(kept, name)
				continue
			}
			if err := m.Forget(name); err != nil {
				return err
			}
			log.Debug("pruned manifest entry", "name", name)
			fmt.Printf("Pruned %s\n", name)
		}
		names = kept
	}

	if len(manifestForget) > 0 || manifestPrune {
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "NAME\tPARAMETERS")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, entries[name])
	}
	return nil
}
