package sweep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/export"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/family"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

func dipJob(t *testing.T, cfg *family.Config, pins ...int) Job {
	t.Helper()
	gen, err := family.New("dip", cfg, family.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var params []template.ParameterSet
	for _, n := range pins {
		params = append(params, template.ParameterSet{Family: "dip", Label: fmt.Sprintf("DIP-%d", n), Pins: n, Pitch: 2.54})
	}
	job, err := NewJob(gen, params)
	if err != nil {
		t.Fatal(err)
	}
	return job
}

func statuses(r *Report) []Status {
	var out []Status
	for _, res := range r.Results {
		out = append(out, res.Status)
	}
	return out
}

func TestRunContinuesPastInvalidParameters(t *testing.T) {
	dir := t.TempDir()
	runner := &Runner{Exporter: export.NewExporter(dir)}

	report, err := runner.Run(context.Background(), dipJob(t, family.DefaultConfig(), 8, 7, 10))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if diff := cmp.Diff([]Status{StatusOK, StatusSkipped, StatusOK}, statuses(report)); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
	for _, name := range []string{"DIP-8_P2.54mm.svg", "DIP-10_P2.54mm.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	err = report.Err()
	if !errors.Is(err, template.ErrInvalidParameter) {
		t.Fatalf("Report.Err() = %v, want ErrInvalidParameter", err)
	}
	if !strings.Contains(err.Error(), "DIP-7") {
		t.Errorf("error %q does not name the parameter set", err)
	}
	if got := report.Summary(); got != "2 generated, 1 skipped" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestRunMissingAnchorIsolated(t *testing.T) {
	cfg := family.DefaultConfig()
	broken := dipJob(t, cfg, 8)
	doc, err := broken.Source.Load()
	if err != nil {
		t.Fatal(err)
	}
	svg.Detach(doc.FindByID("body_path"))
	data, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	broken.Source = svg.BytesSource{Label: "broken", Data: data}

	soic, err := family.New("soic", cfg, family.Options{})
	if err != nil {
		t.Fatal(err)
	}
	good, err := NewJob(soic, nil)
	if err != nil {
		t.Fatal(err)
	}

	runner := &Runner{Exporter: export.NewExporter(t.TempDir())}
	report, err := runner.Run(context.Background(), broken, good)
	if err != nil {
		t.Fatal(err)
	}

	skipped := report.Filter(StatusSkipped)
	if len(skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(skipped))
	}
	var missing *template.MissingAnchorError
	if !errors.As(skipped[0].Err, &missing) || missing.ID != "body_path" {
		t.Errorf("skipped error = %v, want MissingAnchor(body_path)", skipped[0].Err)
	}
	if n := report.Count(StatusOK); n != len(soic.Parameters()) {
		t.Errorf("ok = %d, want %d", n, len(soic.Parameters()))
	}
}

func TestRunResolvesTableRows(t *testing.T) {
	gen, err := family.New("passive", family.DefaultConfig(), family.Options{})
	if err != nil {
		t.Fatal(err)
	}
	job, err := NewJob(gen, []template.ParameterSet{
		{Kind: "capacitor", SizeCode: "0805"},
		{Kind: "resistor", SizeCode: "0805"},
	})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	runner := &Runner{Exporter: export.NewExporter(dir)}
	report, err := runner.Run(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("Report.Err() = %v", err)
	}
	for _, name := range []string{"C_0805.svg", "R_0805.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if got := report.Results[0].Params.Series; got != "C" {
		t.Errorf("recorded Series = %q, want the resolved prefix", got)
	}
}

func TestRunCollisionFails(t *testing.T) {
	cfg := family.DefaultConfig()
	cfg.DIP.Naming = "DIP.svg"

	runner := &Runner{Exporter: export.NewExporter(t.TempDir())}
	report, err := runner.Run(context.Background(), dipJob(t, cfg, 8, 10))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Status{StatusOK, StatusFailed}, statuses(report)); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(report.Err(), export.ErrExportCollision) {
		t.Errorf("Report.Err() = %v, want ErrExportCollision", report.Err())
	}
}

func TestRunPostProcessWarning(t *testing.T) {
	run := func(_ context.Context, _ string, args ...string) ([]byte, error) {
		if len(args) == 1 {
			return []byte("Inkscape 1.2.2"), nil
		}
		return []byte("crash"), errors.New("exit status 139")
	}
	post, err := export.NewPostProcessor(context.Background(), "inkscape", run)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	var seen []Result
	runner := &Runner{
		Exporter: export.NewExporter(dir),
		Post:     post,
		OnResult: func(r Result) { seen = append(seen, r) },
	}
	report, err := runner.Run(context.Background(), dipJob(t, family.DefaultConfig(), 8))
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0].Status != StatusWarning {
		t.Fatalf("results = %+v", seen)
	}
	if _, err := os.Stat(seen[0].Path); err != nil {
		t.Errorf("output removed after post-process failure: %v", err)
	}
	if report.Err() != nil {
		t.Errorf("post-process warning surfaced as failure: %v", report.Err())
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &Runner{Exporter: export.NewExporter(t.TempDir())}
	report, err := runner.Run(ctx, dipJob(t, family.DefaultConfig(), 8, 10))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(report.Results) != 0 {
		t.Errorf("results after cancel = %d", len(report.Results))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, StatusOK},
		{"missing anchor", &template.MissingAnchorError{ID: "pin"}, StatusSkipped},
		{"invalid parameter", fmt.Errorf("wrap: %w", &template.InvalidParameterError{Name: "pins", Value: 7}), StatusSkipped},
		{"substitution", &template.SubstitutionError{Element: "body_path", Attr: "d", Err: errors.New("x")}, StatusFailed},
		{"collision", &export.CollisionError{Name: "a.svg"}, StatusFailed},
		{"post-process", &export.PostProcessError{File: "a.svg", Err: errors.New("x")}, StatusWarning},
		{"io", os.ErrPermission, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory() error: %v", err)
	}
	defer h.Close()

	runner := &Runner{Exporter: export.NewExporter(t.TempDir()), History: h}
	if _, err := runner.Run(context.Background(), dipJob(t, family.DefaultConfig(), 4, 5, 6)); err != nil {
		t.Fatal(err)
	}

	runs, err := h.Runs(10)
	if err != nil {
		t.Fatalf("Runs() error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	run := runs[0]
	if run.OK != 2 || run.Skipped != 1 || run.Failed != 0 {
		t.Errorf("run totals = %+v", run)
	}
	if run.Finished.Before(run.Started) {
		t.Errorf("finished %v before started %v", run.Finished, run.Started)
	}

	all, err := h.Entries(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("entries = %d, want 3", len(all))
	}

	skipped, err := h.Entries(run.ID, StatusSkipped)
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 1 || skipped[0].Params.Pins != 5 || skipped[0].Label != "DIP-5" || skipped[0].Error == "" {
		t.Errorf("skipped entries = %+v", skipped)
	}
}
