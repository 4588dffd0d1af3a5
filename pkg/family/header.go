package family

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

// header is a two column vertical pin header. Middle rows repeat the middle
// prototypes; the last row uses the boundary prototypes, which carry the
// closing edge of the outline.
type header struct {
	cfg HeaderConfig
}

func newHeader(cfg *Config, _ Options) (Generator, error) {
	if len(cfg.Header.Middle) == 0 || len(cfg.Header.Boundary) == 0 {
		return nil, fmt.Errorf("header: middle and boundary prototypes are required")
	}
	return &header{cfg: cfg.Header}, nil
}

func (g *header) Family() string { return "header" }
func (g *header) Master() string { return g.cfg.Master }
func (g *header) Naming() string { return g.cfg.Naming }

func (g *header) Registry() template.Registry {
	reg := template.Registry{
		template.Must(template.RoleOrigin, g.cfg.Origin),
		template.Must(template.RoleBody, g.cfg.Body),
		template.Must(template.RolePolarityMarker, g.cfg.Marker),
	}
	for _, id := range g.cfg.Middle {
		reg = append(reg, template.Must(template.RolePinPrototype, id))
	}
	for _, id := range g.cfg.Boundary {
		reg = append(reg, template.Must(template.RoleBoundaryPin, id))
	}
	return reg
}

func (g *header) Parameters() []template.ParameterSet {
	params := make([]template.ParameterSet, 0, len(g.cfg.PinCounts))
	for _, n := range g.cfg.PinCounts {
		params = append(params, template.ParameterSet{
			Family: "header",
			Label:  fmt.Sprintf("PinHeader_2x%02d", n/2),
			Pins:   n,
			Pitch:  g.cfg.Pitch,
		})
	}
	return params
}

func (g *header) Resolve(ps template.ParameterSet) template.ParameterSet {
	ps = withFamily(ps, "header")
	if ps.Pitch == 0 {
		ps.Pitch = g.cfg.Pitch
	}
	return ps
}

func (g *header) Derive(doc *svg.Document, ps template.ParameterSet) error {
	ps = g.Resolve(ps)
	pitch := ps.Pitch
	if err := template.RequireEvenPins(ps.Pins); err != nil {
		return err
	}

	stripMetadata(doc, g.cfg.Metadata)
	anchors, err := g.Registry().Locate(doc)
	if err != nil {
		return err
	}

	pins, err := template.Stack(
		anchors.Role(template.RolePinPrototype),
		anchors.Role(template.RoleBoundaryPin),
		ps.Pins, pitch)
	if err != nil {
		return err
	}

	body := anchors.First(template.RoleBody)
	if err := substitutePath(body, g.cfg.Placeholder, geometry.RowSpan(ps.Pins, pitch)); err != nil {
		return err
	}

	template.Reassemble(doc.Root(), template.Parts{
		Pins:   pins,
		Body:   []*etree.Element{body},
		Marker: anchors.First(template.RolePolarityMarker),
		Origin: anchors.First(template.RoleOrigin),
	})
	return nil
}
