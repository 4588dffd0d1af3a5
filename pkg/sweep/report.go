package sweep

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/export"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

// Status is the outcome of one sweep iteration.
type Status int

const (
	StatusOK Status = iota
	// StatusSkipped: the parameters or master cannot produce this variant.
	StatusSkipped
	// StatusFailed: synthesis or export broke; nothing usable was written.
	StatusFailed
	// StatusWarning: the file was written but post-processing failed.
	StatusWarning
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusWarning:
		return "warning"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusOK, StatusSkipped, StatusFailed, StatusWarning} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Classify maps an iteration error to its status.
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, export.ErrPostProcess):
		return StatusWarning
	case errors.Is(err, template.ErrMissingAnchor), errors.Is(err, template.ErrInvalidParameter):
		return StatusSkipped
	default:
		return StatusFailed
	}
}

// Result records one iteration.
type Result struct {
	Family   string
	Params   template.ParameterSet
	Name     string
	Path     string
	Status   Status
	Err      error
	Duration time.Duration
}

// Report aggregates a sweep.
type Report struct {
	Started  time.Time
	Finished time.Time
	Results  []Result
}

// Count returns how many results have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Filter returns the results with status s.
func (r *Report) Filter(s Status) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == s {
			out = append(out, res)
		}
	}
	return out
}

// Err joins every skipped and failed iteration error, each prefixed with
// the family and parameter label. It is nil when none occurred.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Status != StatusSkipped && res.Status != StatusFailed {
			continue
		}
		errs = append(errs, fmt.Errorf("%s [%s]: %w", res.Family, res.Params.Name(), res.Err))
	}
	return errors.Join(errs...)
}

// Summary is a one line count of the outcomes.
func (r *Report) Summary() string {
	parts := []string{fmt.Sprintf("%d generated", r.Count(StatusOK)+r.Count(StatusWarning))}
	for _, s := range []Status{StatusWarning, StatusSkipped, StatusFailed} {
		if n := r.Count(s); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	return strings.Join(parts, ", ")
}
