package family

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

type soic struct {
	cfg SOICConfig
}

func newSOIC(cfg *Config, _ Options) (Generator, error) {
	return &soic{cfg: cfg.SOIC}, nil
}

func (g *soic) Family() string { return "soic" }
func (g *soic) Master() string { return g.cfg.Master }
func (g *soic) Naming() string { return g.cfg.Naming }

func (g *soic) Registry() template.Registry {
	return template.Registry{
		template.Must(template.RoleOrigin, g.cfg.Origin),
		template.Must(template.RoleBody, g.cfg.Body),
		template.Must(template.RolePolarityMarker, g.cfg.Marker),
		template.Must(template.RolePinPrototype, g.cfg.Pin),
	}
}

func (g *soic) Parameters() []template.ParameterSet {
	params := make([]template.ParameterSet, 0, len(g.cfg.Sizes))
	for _, s := range g.cfg.Sizes {
		params = append(params, template.ParameterSet{
			Family:       "soic",
			Label:        fmt.Sprintf("SOIC-%d %.2fx%.2f", s.Pins, s.Width, s.Height),
			Pins:         s.Pins,
			Pitch:        g.cfg.Pitch,
			Width:        s.Width,
			Height:       s.Height,
			CornerRadius: g.cfg.CornerRadius,
		})
	}
	return params
}

func (g *soic) Resolve(ps template.ParameterSet) template.ParameterSet {
	ps = withFamily(ps, "soic")
	if ps.Pitch == 0 {
		ps.Pitch = g.cfg.Pitch
	}
	if ps.CornerRadius == 0 {
		ps.CornerRadius = g.cfg.CornerRadius
	}
	return ps
}

func (g *soic) Derive(doc *svg.Document, ps template.ParameterSet) error {
	ps = g.Resolve(ps)
	if err := template.RequireEvenPins(ps.Pins); err != nil {
		return err
	}
	for _, dim := range []struct {
		name string
		v    float64
	}{{"width", ps.Width}, {"height", ps.Height}} {
		if err := template.RequirePositive(dim.name, dim.v); err != nil {
			return err
		}
		if dim.v <= 2*ps.CornerRadius {
			return &template.InvalidParameterError{Name: dim.name, Value: dim.v, Reason: "smaller than the corner radii"}
		}
	}

	stripMetadata(doc, g.cfg.Metadata)
	anchors, err := g.Registry().Locate(doc)
	if err != nil {
		return err
	}

	pins, err := template.QuadGroups(anchors.First(template.RolePinPrototype), template.QuadLayout{
		Pins:     ps.Pins,
		Pitch:    ps.Pitch,
		Width:    ps.Width,
		Overhang: g.cfg.Overhang,
		HalfLead: g.cfg.HalfLead,
	})
	if err != nil {
		return err
	}

	body := anchors.First(template.RoleBody)
	setPath(body, geometry.SOICBody(ps.Width, ps.Height, ps.CornerRadius))

	marker := anchors.First(template.RolePolarityMarker)
	at := geometry.SOICMarker(ps.Width, ps.Height, g.cfg.MarkerInset)
	setFloat(marker, "cx", at.X)
	setFloat(marker, "cy", at.Y)

	template.Reassemble(doc.Root(), template.Parts{
		Pins:   pins,
		Body:   []*etree.Element{body},
		Marker: marker,
		Origin: anchors.First(template.RoleOrigin),
	})
	return nil
}
