// Package family implements the footprint families: each one binds a master
// drawing, its anchor ids and a parameter table to the synthesis steps that
// derive one document per parameter set.
package family

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceTemplates/internal/logger"
	"github.com/OpenTraceLab/OpenTraceTemplates/masters"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/pathdata"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/style"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

var log = logger.ForComponent("family")

// ErrUnknownFamily is returned for a family name that is not registered.
var ErrUnknownFamily = errors.New("unknown family")

// Generator derives documents for one family.
type Generator interface {
	// Family is the registered name, e.g. "dip".
	Family() string
	// Master is the configured master drawing path.
	Master() string
	// Naming is the output file name template.
	Naming() string
	// Registry lists the anchors the master must provide.
	Registry() template.Registry
	// Parameters is the built-in parameter table after filtering.
	Parameters() []template.ParameterSet
	// Resolve completes ps from the family configuration: defaults for
	// unset constants and values looked up from size or series codes.
	// Output names are rendered from the resolved set.
	Resolve(ps template.ParameterSet) template.ParameterSet
	// Derive rewrites doc, a fresh copy of the master, for ps.
	Derive(doc *svg.Document, ps template.ParameterSet) error
}

// Options filter the parameter tables.
type Options struct {
	Kinds []string // passive kinds, all when empty
	Sizes []string // passive size codes, all when empty
}

type constructor func(cfg *Config, opts Options) (Generator, error)

var registry = map[string]constructor{
	"dip":     newDIP,
	"header":  newHeader,
	"soic":    newSOIC,
	"passive": newPassive,
	"radial":  newRadial,
	"axial":   newAxial,
}

// Names lists the registered families in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the generator for name.
func New(name string, cfg *Config, opts Options) (Generator, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return ctor(cfg, opts)
}

// Source resolves a master path. Files on disk win; otherwise the built-in
// master of the same base name is used.
func Source(master string) (svg.Source, error) {
	if _, err := os.Stat(master); err == nil {
		src, err := svg.ReadSource(master)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	src, err := masters.Open(filepath.Base(master))
	if err != nil {
		return nil, fmt.Errorf("master %s not found on disk or built in: %w", master, err)
	}
	log.Debug("using built-in master", "master", master)
	return src, nil
}

func stripMetadata(doc *svg.Document, mode string) {
	switch mode {
	case MetadataKeep:
	case MetadataNamedView:
		doc.StripNamedView()
	default:
		doc.StripGrids()
	}
}

func attr(el *etree.Element, key string) (string, error) {
	v, ok := svg.Attr(el, key)
	if !ok {
		return "", &template.SubstitutionError{Element: svg.ID(el), Attr: key, Err: fmt.Errorf("attribute %q not set", key)}
	}
	return v, nil
}

// substitutePath replaces the placeholder in el's d attribute exactly once.
func substitutePath(el *etree.Element, placeholder string, v float64) error {
	d, err := attr(el, "d")
	if err != nil {
		return err
	}
	p, err := pathdata.Parse(d)
	if err != nil {
		return &template.SubstitutionError{Element: svg.ID(el), Attr: "d", Err: err}
	}
	out, err := p.Substitute(placeholder, v)
	if err != nil {
		return &template.SubstitutionError{Element: svg.ID(el), Attr: "d", Err: err}
	}
	svg.SetAttr(el, "d", out.String())
	return nil
}

// substituteNumber replaces the single numeric argument old in el's path.
func substituteNumber(el *etree.Element, old, v float64) error {
	d, err := attr(el, "d")
	if err != nil {
		return err
	}
	p, err := pathdata.Parse(d)
	if err != nil {
		return &template.SubstitutionError{Element: svg.ID(el), Attr: "d", Err: err}
	}
	out, err := p.SubstituteNumber(old, v)
	if err != nil {
		return &template.SubstitutionError{Element: svg.ID(el), Attr: "d", Err: err}
	}
	svg.SetAttr(el, "d", out.String())
	return nil
}

func setPath(el *etree.Element, p pathdata.Path) {
	svg.SetAttr(el, "d", p.String())
}

func setFloat(el *etree.Element, key string, v float64) {
	svg.SetAttr(el, key, pathdata.FormatFloat(v))
}

// rewriteStyle replaces each key of the style attribute in order. Every key
// must already be present.
func rewriteStyle(el *etree.Element, pairs ...string) error {
	raw, err := attr(el, "style")
	if err != nil {
		return err
	}
	st := style.Parse(raw)
	for i := 0; i+1 < len(pairs); i += 2 {
		st, err = st.Replace(pairs[i], pairs[i+1])
		if err != nil {
			return &template.SubstitutionError{Element: svg.ID(el), Attr: "style", Err: err}
		}
	}
	svg.SetAttr(el, "style", st.String())
	return nil
}

func withFamily(ps template.ParameterSet, family string) template.ParameterSet {
	if ps.Family == "" {
		ps.Family = family
	}
	return ps
}
