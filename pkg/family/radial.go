package family

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

type radial struct {
	cfg RadialConfig
}

func newRadial(cfg *Config, _ Options) (Generator, error) {
	return &radial{cfg: cfg.Radial}, nil
}

func (g *radial) Family() string { return "radial" }
func (g *radial) Master() string { return g.cfg.Master }
func (g *radial) Naming() string { return g.cfg.Naming }

func (g *radial) Registry() template.Registry {
	return template.Registry{
		template.Must(template.RoleOrigin, g.cfg.Origin),
		template.Must(template.RoleBody, g.cfg.Fill),
		template.Must(template.RoleBody, g.cfg.Outline),
		template.Must(template.RoleDecoration, g.cfg.Inner),
		template.Must(template.RolePolarityMarker, g.cfg.Cathode),
	}
}

func (g *radial) Parameters() []template.ParameterSet {
	params := make([]template.ParameterSet, 0, len(g.cfg.Sizes))
	for _, s := range g.cfg.Sizes {
		params = append(params, template.ParameterSet{
			Family:   "radial",
			Label:    fmt.Sprintf("CP_Radial D%.1f P%.2f", s.Diameter, s.Pitch),
			Diameter: s.Diameter,
			Pitch:    s.Pitch,
		})
	}
	return params
}

func (g *radial) Resolve(ps template.ParameterSet) template.ParameterSet {
	return withFamily(ps, "radial")
}

func (g *radial) Derive(doc *svg.Document, ps template.ParameterSet) error {
	ps = g.Resolve(ps)
	if err := template.RequirePositive("diameter", ps.Diameter); err != nil {
		return err
	}
	if err := template.RequirePositive("pitch", ps.Pitch); err != nil {
		return err
	}

	stripMetadata(doc, g.cfg.Metadata)
	anchors, err := g.Registry().Locate(doc)
	if err != nil {
		return err
	}

	c := geometry.RadialOutline(ps.Diameter, ps.Pitch)
	fill, outline := anchors.Get(g.cfg.Fill), anchors.Get(g.cfg.Outline)
	for _, el := range []*etree.Element{fill, outline} {
		setFloat(el, "r", c.Radius)
		setFloat(el, "cx", c.CenterX)
	}
	inner := anchors.Get(g.cfg.Inner)
	setFloat(inner, "r", c.InnerRadius)
	setFloat(inner, "cx", c.CenterX)

	cathode := anchors.First(template.RolePolarityMarker)
	setPath(cathode, geometry.CathodeArc(c.Radius, c.CenterX, geometry.Degrees(g.cfg.CathodeAngle)))

	// The inner highlight sits between the can fill and its outline.
	template.Reassemble(doc.Root(), template.Parts{
		Body:   []*etree.Element{fill, inner, outline},
		Marker: cathode,
		Origin: anchors.First(template.RoleOrigin),
	})
	return nil
}
