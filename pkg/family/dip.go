package family

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

type dip struct {
	cfg DIPConfig
}

func newDIP(cfg *Config, _ Options) (Generator, error) {
	if len(cfg.DIP.Pins) == 0 {
		return nil, fmt.Errorf("dip: no pin prototypes configured")
	}
	return &dip{cfg: cfg.DIP}, nil
}

func (g *dip) Family() string { return "dip" }
func (g *dip) Master() string { return g.cfg.Master }
func (g *dip) Naming() string { return g.cfg.Naming }

func (g *dip) Registry() template.Registry {
	reg := template.Registry{
		template.Must(template.RoleOrigin, g.cfg.Origin),
		template.Must(template.RoleBody, g.cfg.Body),
		template.Must(template.RolePolarityMarker, g.cfg.Marker),
	}
	for _, id := range g.cfg.Pins {
		reg = append(reg, template.Must(template.RolePinPrototype, id))
	}
	return reg
}

func (g *dip) Parameters() []template.ParameterSet {
	params := make([]template.ParameterSet, 0, len(g.cfg.PinCounts))
	for _, n := range g.cfg.PinCounts {
		params = append(params, template.ParameterSet{
			Family: "dip",
			Label:  fmt.Sprintf("DIP-%d", n),
			Pins:   n,
			Pitch:  g.cfg.Pitch,
		})
	}
	return params
}

func (g *dip) Resolve(ps template.ParameterSet) template.ParameterSet {
	ps = withFamily(ps, "dip")
	if ps.Pitch == 0 {
		ps.Pitch = g.cfg.Pitch
	}
	return ps
}

func (g *dip) Derive(doc *svg.Document, ps template.ParameterSet) error {
	ps = g.Resolve(ps)
	pitch := ps.Pitch
	if err := template.RequireEvenPins(ps.Pins); err != nil {
		return err
	}
	if err := template.RequirePositive("pitch", pitch); err != nil {
		return err
	}

	stripMetadata(doc, g.cfg.Metadata)
	anchors, err := g.Registry().Locate(doc)
	if err != nil {
		return err
	}

	pins, err := template.Row(anchors.Role(template.RolePinPrototype), ps.Pins, pitch)
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
	log.Debug("derived", "family", "dip", "pins", ps.Pins, "clones", len(pins))
	return nil
}
