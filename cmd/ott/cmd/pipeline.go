package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/export"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/family"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/sweep"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/tables"
)

// manifestName is the bolt file kept in the output directory.
const manifestName = ".ott-manifest.db"

// Generate flags, shared with watch.
var (
	genAll      bool
	genTable    string
	genSizes    []string
	genKinds    []string
	genOut      string
	genInkscape bool
	genManifest bool
	genCatalog  string
	genHistory  string
)

// pipeline owns the long-lived handles of a generate or watch session.
type pipeline struct {
	outDir   string
	manifest *export.Manifest
	post     *export.PostProcessor
	catalog  *catalog.Catalog
	history  *sweep.History
	closers  []io.Closer
}

func openPipeline(ctx context.Context, cfg *family.Config) (*pipeline, error) {
	p := &pipeline{outDir: cfg.OutputDir}
	if genOut != "" {
		p.outDir = genOut
	}

	if genManifest {
		m, err := export.OpenManifest(filepath.Join(p.outDir, manifestName))
		if err != nil {
			return nil, err
		}
		p.manifest = m
		p.closers = append(p.closers, m)
	}

	if genInkscape || cfg.Inkscape.Enabled {
		post, err := export.NewPostProcessor(ctx, cfg.Inkscape.Binary, nil)
		if err != nil {
			p.Close()
			return nil, err
		}
		log.Info("post-processing enabled", "binary", post.Binary, "version", post.Version)
		p.post = post
	}

	if genCatalog != "" {
		c, err := catalog.Open(genCatalog)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.catalog = c
		p.closers = append(p.closers, c)
	}

	if genHistory != "" {
		h, err := sweep.OpenHistory(genHistory)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.history = h
		p.closers = append(p.closers, h)
	}
	return p, nil
}

// Close releases every handle.
func (p *pipeline) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		errs = append(errs, p.closers[i].Close())
	}
	p.closers = nil
	return errors.Join(errs...)
}

// runner builds a sweep runner with a fresh exporter, so names claimed in
// an earlier run do not leak into the next one.
func (p *pipeline) runner(onResult func(sweep.Result)) *sweep.Runner {
	exp := export.NewExporter(p.outDir)
	exp.Manifest = p.manifest
	r := &sweep.Runner{
		Exporter: exp,
		Post:     p.post,
		History:  p.history,
		OnResult: onResult,
	}
	if p.catalog != nil {
		r.Catalog = p.catalog
	}
	return r
}

// selectFamilies resolves the positional arguments and --all.
func selectFamilies(args []string) ([]string, error) {
	if genAll {
		return family.Names(), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no family given; choose from %v or pass --all", family.Names())
	}
	return args, nil
}

// buildJobs creates one job per family. With --table, families that have a
// sheet in the workbook use it instead of the built-in table.
func buildJobs(cfg *family.Config, families []string) ([]sweep.Job, error) {
	opts := family.Options{Kinds: genKinds, Sizes: genSizes}
	var jobs []sweep.Job
	for _, name := range families {
		gen, err := family.New(name, cfg, opts)
		if err != nil {
			return nil, err
		}

		params := gen.Parameters()
		if genTable != "" {
			rows, err := tables.Load(genTable, name)
			switch {
			case errors.Is(err, tables.ErrNoSheet):
				log.Info("no sheet for family, using built-in table", "family", name, "table", genTable)
			case err != nil:
				return nil, err
			default:
				params = rows
			}
		}

		job, err := sweep.NewJob(gen, params)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// printResult writes one line per iteration.
func printResult(w io.Writer) func(sweep.Result) {
	return func(r sweep.Result) {
		name := r.Name
		if name == "" {
			name = r.Params.Name()
		}
		if r.Err != nil {
			fmt.Fprintf(w, "  %-8s %s: %v\n", r.Status, name, r.Err)
			return
		}
		fmt.Fprintf(w, "  %-8s %s\n", r.Status, name)
	}
}
