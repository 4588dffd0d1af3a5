package family

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/pathdata"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/style"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

// axial scales a base resistor body onto a DIN series and stretches the
// lead to the pitch.
type axial struct {
	cfg AxialConfig
}

func newAxial(cfg *Config, _ Options) (Generator, error) {
	if cfg.Axial.Base.Length <= 0 || cfg.Axial.Base.Diameter <= 0 {
		return nil, fmt.Errorf("axial: base body must have a positive length and diameter")
	}
	return &axial{cfg: cfg.Axial}, nil
}

func (g *axial) Family() string { return "axial" }
func (g *axial) Master() string { return g.cfg.Master }
func (g *axial) Naming() string { return g.cfg.Naming }

func (g *axial) Registry() template.Registry {
	return template.Registry{
		template.Must(template.RoleOrigin, g.cfg.Origin),
		template.Must(template.RolePinPrototype, g.cfg.Pin),
		template.Must(template.RoleBody, g.cfg.Bean),
		template.Must(template.RoleDecoration, g.cfg.Outline),
	}
}

func (g *axial) Parameters() []template.ParameterSet {
	var params []template.ParameterSet
	for _, s := range g.cfg.Series {
		for _, p := range s.Pitches {
			params = append(params, template.ParameterSet{
				Family:   "axial",
				Label:    fmt.Sprintf("%s P%.2f", s.Name, p),
				Series:   s.Name,
				Length:   s.Length,
				Diameter: s.Diameter,
				Pitch:    p,
			})
		}
	}
	return params
}

// Resolve fills an unset body length or diameter from the named series.
func (g *axial) Resolve(ps template.ParameterSet) template.ParameterSet {
	ps = withFamily(ps, "axial")
	for _, s := range g.cfg.Series {
		if s.Name != ps.Series {
			continue
		}
		if ps.Length == 0 {
			ps.Length = s.Length
		}
		if ps.Diameter == 0 {
			ps.Diameter = s.Diameter
		}
		break
	}
	return ps
}

func (g *axial) Derive(doc *svg.Document, ps template.ParameterSet) error {
	ps = g.Resolve(ps)
	for _, dim := range []struct {
		name string
		v    float64
	}{{"length", ps.Length}, {"diameter", ps.Diameter}, {"pitch", ps.Pitch}} {
		if err := template.RequirePositive(dim.name, dim.v); err != nil {
			return err
		}
	}
	if ps.Length > ps.Pitch {
		return &template.InvalidParameterError{Name: "pitch", Value: ps.Pitch, Reason: "shorter than the body"}
	}

	stripMetadata(doc, g.cfg.Metadata)
	anchors, err := template.Find(doc, g.Registry()...)
	if err != nil {
		return err
	}
	origin := anchors.Get(g.cfg.Origin)
	svg.Detach(origin)

	if err := substituteNumber(anchors.Get(g.cfg.Pin), g.cfg.BasePinLength, ps.Pitch); err != nil {
		return err
	}

	scale := geometry.AxialScale(g.cfg.Base, geometry.Box{Length: ps.Length, Diameter: ps.Diameter}, ps.Pitch)
	svg.SetAttr(anchors.Get(g.cfg.Bean), "transform", scale.Transform())

	outline := anchors.Get(g.cfg.Outline)
	raw, err := attr(outline, "style")
	if err != nil {
		return err
	}
	w, err := style.Parse(raw).Float("stroke-width")
	if err != nil {
		return &template.SubstitutionError{Element: g.cfg.Outline, Attr: "style", Err: err}
	}
	if err := rewriteStyle(outline, "stroke-width", pathdata.FormatFloat(scale.RescaleStroke(w))); err != nil {
		return err
	}

	template.Reassemble(doc.Root(), template.Parts{Origin: origin})
	return nil
}
