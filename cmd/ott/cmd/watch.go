package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceTemplates/internal/watch"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/family"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/sweep"
)

var watchCmd = &cobra.Command{
	Use:   "watch <family>...",
	Short: "Regenerate templates when masters or configuration change",
	Long: `Generate once, then follow the master drawings found on disk and the
configuration files, regenerating the selected families after each change.
Stop with Ctrl-C.

Examples:
  ott watch dip soic --config ott.yaml
  ott watch --all --config-glob 'families/*.yaml'`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addGenerateFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	families, err := selectFamilies(args)
	if err != nil {
		return err
	}
	cfg, files, err := loadConfig()
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

	changes := make(chan watch.Change, 1)
	w, err := watch.New(watch.DefaultConfig(), func(c watch.Change) {
		select {
		case changes <- c:
		default:
			// A regeneration is already pending.
		}
	})
	if err != nil {
		return err
	}

	followed := 0
	follow := func(path string, concern watch.Concern) error {
		if err := w.Add(path, concern); err != nil {
			return err
		}
		followed++
		return nil
	}
	for _, f := range files {
		if err := follow(f, watch.ConcernConfig); err != nil {
			return err
		}
	}
	for _, name := range families {
		gen, err := family.New(name, cfg, family.Options{})
		if err != nil {
			return err
		}
		if _, err := os.Stat(gen.Master()); err == nil {
			if err := follow(gen.Master(), watch.ConcernMaster); err != nil {
				return err
			}
		}
	}
	if genTable != "" {
		if err := follow(genTable, watch.ConcernTable); err != nil {
			return err
		}
	}
	if followed == 0 {
		return fmt.Errorf("nothing to watch: no master drawing or configuration file on disk")
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Masters and tables are re-read by every run; the configuration only
	// when one of its files changed.
	regenerate := func(reload bool) {
		if reload {
			next, _, err := loadConfig()
			if err != nil {
				log.Error("config reload failed, keeping the previous one", "error", err)
			} else {
				cfg = next
			}
		}
		jobs, err := buildJobs(cfg, families)
		if err != nil {
			log.Error("cannot build jobs", "error", err)
			return
		}
		report, err := p.runner(printResult(os.Stdout)).Run(ctx, jobs...)
		fmt.Println(report.Summary())
		if err == nil && report.Err() != nil {
			log.Warn("sweep finished with problems", "skipped", report.Count(sweep.StatusSkipped), "failed", report.Count(sweep.StatusFailed))
		}
	}

	regenerate(false)
	fmt.Printf("Watching %d files, Ctrl-C to stop\n", followed)
	for {
		select {
		case <-ctx.Done():
			return <-done
		case c := <-changes:
			for _, e := range c.Events {
				fmt.Printf("%s %s %s\n", e.Concern, e.Type, e.Path)
			}
			regenerate(c.Has(watch.ConcernConfig))
		}
	}
}
