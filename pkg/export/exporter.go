package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/OpenTraceLab/OpenTraceTemplates/internal/logger"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	tmpl "github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

var log = logger.ForComponent("export")

// ErrExportCollision is returned when two parameter sets render the same
// output name.
var ErrExportCollision = errors.New("export collision")

// CollisionError names the contested file and both claimants.
type CollisionError struct {
	Name     string
	Existing string
	Incoming string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("output %q already written for [%s], refusing [%s]", e.Name, e.Existing, e.Incoming)
}

func (e *CollisionError) Is(target error) bool { return target == ErrExportCollision }

// Exporter writes documents into Dir.
type Exporter struct {
	Dir      string
	Manifest *Manifest // optional, extends collision detection across runs

	mu      sync.Mutex
	claimed map[string]string
}

// NewExporter writes into dir, created on the first export.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir, claimed: make(map[string]string)}
}

// Export renders the name of ps, checks it against earlier claims and
// writes doc. The name is claimed only once the file is on disk, so a
// failed write leaves no claim behind. It returns the written path.
func (e *Exporter) Export(doc *svg.Document, ps tmpl.ParameterSet, namer *Namer) (string, error) {
	name, err := namer.Name(ps)
	if err != nil {
		return "", err
	}
	fp := ps.Fingerprint()

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(name, fp); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(e.Dir, name)
	if err := doc.WriteFile(path); err != nil {
		return "", err
	}

	if e.Manifest != nil {
		if err := e.Manifest.Claim(name, fp); err != nil {
			return "", err
		}
	}
	e.claimed[name] = fp
	log.Debug("exported", "path", path, "params", ps.Name())
	return path, nil
}

// Claimed lists the names written in this run.
func (e *Exporter) Claimed() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.claimed))
	for k, v := range e.claimed {
		out[k] = v
	}
	return out
}

// check reports a collision with a name claimed in this run or recorded in
// the manifest. e.mu must be held.
func (e *Exporter) check(name, fp string) error {
	if e.claimed == nil {
		e.claimed = make(map[string]string)
	}
	if prev, ok := e.claimed[name]; ok && prev != fp {
		return &CollisionError{Name: name, Existing: prev, Incoming: fp}
	}
	if e.Manifest == nil {
		return nil
	}
	prev, ok, err := e.Manifest.Lookup(name)
	if err != nil {
		return fmt.Errorf("manifest lookup %s: %w", name, err)
	}
	if ok && prev != fp {
		return &CollisionError{Name: name, Existing: prev, Incoming: fp}
	}
	return nil
}
