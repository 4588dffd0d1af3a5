// Package sweep runs family generators over their parameter tables. Each
// iteration loads a fresh master, so a failed variant never affects the
// next one.
package sweep

import (
	"context"
	"time"

	"github.com/OpenTraceLab/OpenTraceTemplates/internal/logger"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/export"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/family"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

var log = logger.ForComponent("sweep")

// Job pairs a generator with its master and parameter table.
type Job struct {
	Generator family.Generator
	Source    svg.Source
	Params    []template.ParameterSet
}

// NewJob resolves the generator's master. A nil params uses the
// generator's own table.
func NewJob(gen family.Generator, params []template.ParameterSet) (Job, error) {
	src, err := family.Source(gen.Master())
	if err != nil {
		return Job{}, err
	}
	if params == nil {
		params = gen.Parameters()
	}
	return Job{Generator: gen, Source: src, Params: params}, nil
}

// Indexer receives every written output.
type Indexer interface {
	Index(name, path string, ps template.ParameterSet) error
}

// Runner executes jobs sequentially.
type Runner struct {
	Exporter *export.Exporter
	Post     *export.PostProcessor // optional
	History  *History              // optional
	Catalog  Indexer               // optional

	// OnResult is called after every iteration.
	OnResult func(Result)
}

// Run processes every parameter set of every job. Iteration errors are
// recorded in the report; the returned error is non-nil only when ctx is
// cancelled, in which case the report holds what completed.
func (r *Runner) Run(ctx context.Context, jobs ...Job) (*Report, error) {
	report := &Report{Started: time.Now()}

	var runID int64
	if r.History != nil {
		id, err := r.History.BeginRun(report.Started)
		if err != nil {
			log.Warn("history unavailable", "error", err)
		} else {
			runID = id
		}
	}

	for _, job := range jobs {
		namer, err := export.NewNamer(job.Generator.Naming())
		for _, ps := range job.Params {
			if ctxErr := ctx.Err(); ctxErr != nil {
				report.Finished = time.Now()
				r.finish(runID, report)
				return report, ctxErr
			}

			var res Result
			if err != nil {
				res = Result{Family: job.Generator.Family(), Params: ps, Status: StatusFailed, Err: err}
			} else {
				res = r.iterate(ctx, job, namer, ps)
			}
			report.Results = append(report.Results, res)
			r.record(runID, res)
		}
	}

	report.Finished = time.Now()
	r.finish(runID, report)
	return report, nil
}

func (r *Runner) iterate(ctx context.Context, job Job, namer *export.Namer, ps template.ParameterSet) Result {
	start := time.Now()
	ps = job.Generator.Resolve(ps)
	res := Result{Family: job.Generator.Family(), Params: ps}
	done := func(err error) Result {
		res.Err = err
		res.Status = Classify(err)
		res.Duration = time.Since(start)
		return res
	}

	if name, err := namer.Name(ps); err == nil {
		res.Name = name
	}

	doc, err := job.Source.Load()
	if err != nil {
		return done(err)
	}
	if err := job.Generator.Derive(doc, ps); err != nil {
		return done(err)
	}
	path, err := r.Exporter.Export(doc, ps, namer)
	if err != nil {
		return done(err)
	}
	res.Path = path

	if r.Catalog != nil {
		if err := r.Catalog.Index(res.Name, path, ps); err != nil {
			log.Warn("catalog index failed", "path", path, "error", err)
		}
	}
	if r.Post != nil {
		if err := r.Post.Process(ctx, path); err != nil {
			return done(err)
		}
	}
	return done(nil)
}

func (r *Runner) record(runID int64, res Result) {
	switch res.Status {
	case StatusOK:
		log.Debug("generated", "family", res.Family, "path", res.Path)
	case StatusWarning:
		log.Warn("post-process failed", "family", res.Family, "path", res.Path, "error", res.Err)
	case StatusSkipped:
		log.Warn("skipped", "family", res.Family, "params", res.Params.Name(), "error", res.Err)
	default:
		log.Error("failed", "family", res.Family, "params", res.Params.Name(), "error", res.Err)
	}

	if r.History != nil && runID != 0 {
		if err := r.History.Record(runID, res); err != nil {
			log.Warn("history record failed", "error", err)
		}
	}
	if r.OnResult != nil {
		r.OnResult(res)
	}
}

func (r *Runner) finish(runID int64, report *Report) {
	if r.History != nil && runID != 0 {
		if err := r.History.FinishRun(runID, report); err != nil {
			log.Warn("history finish failed", "error", err)
		}
	}
}
