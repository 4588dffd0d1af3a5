package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/sweep"
)

var (
	historyFailed bool
	historyLimit  int
	historyRun    int64
)

var historyCmd = &cobra.Command{
	Use:   "history <database>",
	Short: "Show recorded sweeps",
	Long: `List the sweeps recorded with 'ott generate --history'.

Examples:
  ott history runs.db
  ott history runs.db --failed           # Problems of the latest run
  ott history runs.db --run 12 --failed`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "list skipped and failed variants")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to list")
	historyCmd.Flags().Int64Var(&historyRun, "run", 0, "run id for --failed (default latest)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	h, err := sweep.OpenHistory(args[0])
	if err != nil {
		return err
	}
	defer h.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if !historyFailed {
		runs, err := h.Runs(historyLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "RUN\tSTARTED\tDURATION\tOK\tWARN\tSKIPPED\tFAILED")
		for _, r := range runs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
				r.ID, r.Started.Local().Format(time.DateTime), r.Finished.Sub(r.Started).Round(time.Millisecond),
				r.OK, r.Warnings, r.Skipped, r.Failed)
		}
		return nil
	}

	id := historyRun
	if id == 0 {
		runs, err := h.Runs(1)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs recorded")
			return nil
		}
		id = runs[0].ID
	}
	entries, err := h.Entries(id, sweep.StatusSkipped, sweep.StatusFailed)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "STATUS\tFAMILY\tPARAMETERS\tERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Status, e.Family, e.Label, e.Error)
	}
	return nil
}
