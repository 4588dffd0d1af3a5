package family

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/pathdata"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

// passive rewrites the body and terminal outlines of a two terminal surface
// mount part in place; only the origin moves.
type passive struct {
	cfg   PassiveConfig
	kinds []string
	sizes []geometry.PassiveSize
}

func newPassive(cfg *Config, opts Options) (Generator, error) {
	g := &passive{cfg: cfg.Passive}

	g.kinds = opts.Kinds
	if len(g.kinds) == 0 {
		g.kinds = cfg.Passive.KindNames()
	}
	for _, k := range g.kinds {
		if _, ok := cfg.Passive.Kind(k); !ok {
			return nil, &template.InvalidParameterError{Name: "kind", Value: k, Reason: "not a configured passive kind"}
		}
	}

	if len(opts.Sizes) == 0 {
		g.sizes = cfg.Passive.Sizes
	}
	for _, code := range opts.Sizes {
		s, ok := cfg.Passive.Size(code)
		if !ok {
			return nil, &template.InvalidParameterError{Name: "size", Value: code, Reason: "not a configured size code"}
		}
		g.sizes = append(g.sizes, s)
	}
	return g, nil
}

func (g *passive) Family() string { return "passive" }
func (g *passive) Master() string { return g.cfg.Master }
func (g *passive) Naming() string { return g.cfg.Naming }

func (g *passive) Registry() template.Registry {
	return template.Registry{
		template.Must(template.RoleOrigin, g.cfg.Origin),
		template.Must(template.RoleBody, g.cfg.Body),
		template.Must(template.RolePinPrototype, g.cfg.Leads),
	}
}

func (g *passive) Parameters() []template.ParameterSet {
	var params []template.ParameterSet
	for _, name := range g.kinds {
		kind, _ := g.cfg.Kind(name)
		for _, s := range g.sizes {
			params = append(params, template.ParameterSet{
				Family:      "passive",
				Label:       fmt.Sprintf("%s %s", name, s.Code),
				Kind:        name,
				Series:      kind.Prefix,
				SizeCode:    s.Code,
				Width:       s.Width,
				Height:      s.Height,
				LeadWidth:   s.LeadWidth,
				StrokeWidth: s.StrokeWidth,
			})
		}
	}
	return params
}

// Resolve takes the name prefix from the kind and any unset dimension from
// the size code table, so a row naming only kind and size is complete.
func (g *passive) Resolve(ps template.ParameterSet) template.ParameterSet {
	ps = withFamily(ps, "passive")
	if kind, ok := g.cfg.Kind(ps.Kind); ok && ps.Series == "" {
		ps.Series = kind.Prefix
	}
	if s, ok := g.cfg.Size(ps.SizeCode); ok {
		if ps.Width == 0 {
			ps.Width = s.Width
		}
		if ps.Height == 0 {
			ps.Height = s.Height
		}
		if ps.LeadWidth == 0 {
			ps.LeadWidth = s.LeadWidth
		}
		if ps.StrokeWidth == 0 {
			ps.StrokeWidth = s.StrokeWidth
		}
	}
	return ps
}

func (g *passive) Derive(doc *svg.Document, ps template.ParameterSet) error {
	ps = g.Resolve(ps)
	kind, ok := g.cfg.Kind(ps.Kind)
	if !ok {
		return &template.InvalidParameterError{Name: "kind", Value: ps.Kind, Reason: "not a configured passive kind"}
	}
	if _, ok := g.cfg.Size(ps.SizeCode); !ok && ps.Width == 0 {
		return &template.InvalidParameterError{Name: "size", Value: ps.SizeCode, Reason: "not a configured size code"}
	}
	if err := template.RequirePositive("width", ps.Width); err != nil {
		return err
	}
	if err := template.RequirePositive("height", ps.Height); err != nil {
		return err
	}
	if ps.LeadWidth < 0 || 2*ps.LeadWidth >= ps.Width {
		return &template.InvalidParameterError{Name: "lead_width", Value: ps.LeadWidth, Reason: "terminals overlap the body"}
	}

	stripMetadata(doc, g.cfg.Metadata)
	parts, err := template.Find(doc,
		template.Must(template.RoleBody, g.cfg.Body),
		template.Must(template.RolePinPrototype, g.cfg.Leads))
	if err != nil {
		return err
	}
	origin, err := template.Locate(doc, template.Must(template.RoleOrigin, g.cfg.Origin))
	if err != nil {
		return err
	}
	body := parts.First(template.RoleBody)
	leads := parts.First(template.RolePinPrototype)

	stroke := pathdata.FormatFloat(ps.StrokeWidth)
	if ps.StrokeWidth == 0 {
		stroke = ""
	}
	if err := g.paint(body, kind.Body, stroke); err != nil {
		return err
	}
	if err := g.paint(leads, kind.Leads, stroke); err != nil {
		return err
	}

	bodyPath, leadPath := geometry.PassiveOutlines(geometry.PassiveSize{
		Code:      ps.SizeCode,
		Width:     ps.Width,
		Height:    ps.Height,
		LeadWidth: ps.LeadWidth,
	})
	setPath(leads, leadPath)
	setPath(body, bodyPath)

	template.Reassemble(doc.Root(), template.Parts{Origin: origin.First(template.RoleOrigin)})
	return nil
}

func (g *passive) paint(el *etree.Element, c Colors, stroke string) error {
	pairs := []string{"fill", c.Fill, "stroke", c.Stroke}
	if stroke != "" {
		pairs = append(pairs, "stroke-width", stroke)
	}
	return rewriteStyle(el, pairs...)
}
