// Package plot renders a KiCad footprint into a template master: one group
// per board side holding a coloured group per layer class, plus the origin
// marker the family generators expect.
package plot

import (
	"fmt"
	"math"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceTemplates/internal/logger"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/pathdata"
)

var log = logger.ForComponent("plot")

// Side selects which face of the footprint is plotted.
type Side int

const (
	Front Side = iota
	Back
)

func (s Side) String() string {
	if s == Back {
		return "bottom"
	}
	return "top"
}

// GroupID is the id of the side group in the plotted document.
func (s Side) GroupID() string {
	return "KiCAD footprint " + s.String()
}

// Layer classes in drawing order.
const (
	Copper    = "copper"
	Courtyard = "crt"
	Fab       = "fab"
	Comment   = "cmt"
	Edge      = "edge"
	Silk      = "silk"
)

// Classes lists the layer classes in drawing order.
var Classes = []string{Copper, Courtyard, Fab, Comment, Edge, Silk}

// DefaultColors is the colour table used for templates.
func DefaultColors() map[string]string {
	return map[string]string{
		Copper:    "#666666",
		Courtyard: "#000000",
		Fab:       "#000000",
		Comment:   "#000000",
		Edge:      "#000000",
		Silk:      "#61caff",
	}
}

// layerPlan maps each class to its KiCad layer on side.
func layerPlan(side Side) map[string]string {
	p := "F"
	if side == Back {
		p = "B"
	}
	return map[string]string{
		Copper:    p + ".Cu",
		Courtyard: p + ".CrtYd",
		Fab:       p + ".Fab",
		Comment:   "Cmts.User",
		Edge:      "Edge.Cuts",
		Silk:      p + ".SilkS",
	}
}

// KiCad 7 user-facing names map onto the file format names.
var aliases = map[string]string{
	"F.Courtyard":   "F.CrtYd",
	"B.Courtyard":   "B.CrtYd",
	"F.Silkscreen":  "F.SilkS",
	"B.Silkscreen":  "B.SilkS",
	"User.Comments": "Cmts.User",
}

func canonical(layer string) string {
	if c, ok := aliases[layer]; ok {
		return c
	}
	return layer
}

// OriginSize is the edge of the origin marker in millimetres.
const OriginSize = 1.0

// Plotter renders footprints.
type Plotter struct {
	Colors map[string]string
}

// NewPlotter returns a plotter with the default colours.
func NewPlotter() *Plotter {
	return &Plotter{Colors: DefaultColors()}
}

// Plot draws side of fp. The document is sized from the footprint bounds;
// the back side is mirrored about the Y axis.
func (p *Plotter) Plot(fp *footprint.Footprint, side Side) *svg.Document {
	bb := fp.Bounds()
	minX := bb.Min.X
	if side == Back {
		minX = -bb.Max.X
	}
	doc := svg.New(
		num(bb.Width())+"mm",
		num(bb.Height())+"mm",
		fmt.Sprintf("%s %s %s %s", num(minX), num(bb.Min.Y), num(bb.Width()), num(bb.Height())),
	)

	group := doc.Root().CreateElement("g")
	group.CreateAttr("id", side.GroupID())
	if side == Back {
		group.CreateAttr("transform", "scale(-1 1)")
	}

	plan := layerPlan(side)
	drawn := 0
	for _, class := range Classes {
		layer := plan[class]
		color := p.color(class)

		g := etree.NewElement("g")
		g.CreateAttr("id", fmt.Sprintf("%s-%s", class, side))
		n := 0
		if class == Copper {
			g.CreateAttr("fill", color)
			g.CreateAttr("stroke", "none")
			for _, pad := range fp.Pads {
				if pad.OnLayer(layer) {
					drawPad(g, pad)
					n++
				}
			}
		} else {
			g.CreateAttr("fill", "none")
			g.CreateAttr("stroke", color)
			g.CreateAttr("stroke-linecap", "round")
			g.CreateAttr("stroke-linejoin", "round")
			for _, gr := range fp.Graphics {
				if canonical(gr.Layer) == layer {
					drawGraphic(g, gr, color)
					n++
				}
			}
		}
		if n > 0 {
			group.AddChild(g)
			drawn += n
		}
	}

	origin := doc.Root().CreateElement("rect")
	origin.CreateAttr("id", "origin")
	origin.CreateAttr("fill", "red")
	origin.CreateAttr("width", num(OriginSize))
	origin.CreateAttr("height", num(OriginSize))
	origin.CreateAttr("x", "0")
	origin.CreateAttr("y", "0")

	log.Debug("plotted footprint", "name", fp.Name, "side", side, "elements", drawn)
	return doc
}

// PlotFile reads a .kicad_mod and writes the plotted template to dst.
func (p *Plotter) PlotFile(src, dst string, side Side) error {
	fp, err := footprint.ParseFile(src)
	if err != nil {
		return err
	}
	return p.Plot(fp, side).WriteFile(dst)
}

func (p *Plotter) color(class string) string {
	if c, ok := p.Colors[class]; ok {
		return c
	}
	return DefaultColors()[class]
}

func drawPad(g *etree.Element, pad footprint.Pad) {
	cx, cy := pad.Position.X, pad.Position.Y
	w, h := pad.Size.Width, pad.Size.Height

	if pad.Shape == "circle" {
		el := g.CreateElement("circle")
		el.CreateAttr("cx", num(cx))
		el.CreateAttr("cy", num(cy))
		el.CreateAttr("r", num(w/2))
		return
	}

	el := g.CreateElement("rect")
	el.CreateAttr("x", num(cx-w/2))
	el.CreateAttr("y", num(cy-h/2))
	el.CreateAttr("width", num(w))
	el.CreateAttr("height", num(h))
	var r float64
	switch pad.Shape {
	case "oval":
		r = math.Min(w, h) / 2
	case "roundrect":
		r = pad.RoundRect * math.Min(w, h)
	}
	if r > 0 {
		el.CreateAttr("rx", num(r))
		el.CreateAttr("ry", num(r))
	}
	if pad.Angle != 0 {
		el.CreateAttr("transform", fmt.Sprintf("rotate(%s %s %s)", num(-pad.Angle), num(cx), num(cy)))
	}
}

func drawGraphic(g *etree.Element, gr footprint.Graphic, color string) {
	var el *etree.Element
	switch gr.Kind {
	case footprint.KindLine:
		el = g.CreateElement("line")
		el.CreateAttr("x1", num(gr.Start.X))
		el.CreateAttr("y1", num(gr.Start.Y))
		el.CreateAttr("x2", num(gr.End.X))
		el.CreateAttr("y2", num(gr.End.Y))

	case footprint.KindCircle:
		el = g.CreateElement("circle")
		el.CreateAttr("cx", num(gr.Center.X))
		el.CreateAttr("cy", num(gr.Center.Y))
		el.CreateAttr("r", num(gr.Radius()))

	case footprint.KindRect:
		el = g.CreateElement("rect")
		el.CreateAttr("x", num(math.Min(gr.Start.X, gr.End.X)))
		el.CreateAttr("y", num(math.Min(gr.Start.Y, gr.End.Y)))
		el.CreateAttr("width", num(math.Abs(gr.End.X-gr.Start.X)))
		el.CreateAttr("height", num(math.Abs(gr.End.Y-gr.Start.Y)))

	case footprint.KindArc:
		b := pathdata.NewBuilder().MoveTo(gr.Start.X, gr.Start.Y)
		if arc, ok := gr.Arc(); ok {
			b.ArcTo(arc.Radius, arc.Radius, 0, arc.Sweep > math.Pi, arc.Clockwise, gr.End.X, gr.End.Y)
		} else {
			b.LineTo(gr.End.X, gr.End.Y)
		}
		el = g.CreateElement("path")
		el.CreateAttr("d", b.Path().String())

	case footprint.KindPoly:
		b := pathdata.NewBuilder()
		for i, pt := range gr.Points {
			if i == 0 {
				b.MoveTo(pt.X, pt.Y)
			} else {
				b.LineTo(pt.X, pt.Y)
			}
		}
		el = g.CreateElement("path")
		el.CreateAttr("d", b.CloseAbs().Path().String())
	}

	el.CreateAttr("stroke-width", num(gr.Width))
	if gr.Filled {
		el.CreateAttr("fill", color)
	}
}

func num(v float64) string {
	return pathdata.FormatFloat(math.Round(v*1e6) / 1e6)
}
