// Package footprint reads KiCad footprint files (.kicad_mod) into pads and
// graphic primitives with their layers.
package footprint

import (
	"fmt"
	"math"
	"strings"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/kicad/sexpr"
)

// Point is a position in millimetres.
type Point struct {
	X, Y float64
}

// Size is a pad extent in millimetres.
type Size struct {
	Width, Height float64
}

// Pad is a footprint pad.
type Pad struct {
	Number    string
	Type      string // thru_hole, smd, connect, np_thru_hole
	Shape     string // circle, rect, oval, roundrect, trapezoid, custom
	Position  Point
	Angle     float64 // degrees, counter-clockwise
	Size      Size
	Drill     float64
	Layers    []string
	RoundRect float64 // roundrect_rratio
}

// OnLayer reports whether the pad is drawn on layer, honouring the
// "*.Cu" and "F&B.Cu" wildcards.
func (p Pad) OnLayer(layer string) bool {
	for _, l := range p.Layers {
		if layerMatch(l, layer) {
			return true
		}
	}
	return false
}

func layerMatch(pattern, layer string) bool {
	if pattern == layer {
		return true
	}
	side, kind, ok := strings.Cut(pattern, ".")
	if !ok {
		return false
	}
	lside, lkind, ok := strings.Cut(layer, ".")
	if !ok || kind != lkind {
		return false
	}
	switch side {
	case "*":
		return true
	case "F&B":
		return lside == "F" || lside == "B"
	}
	return false
}

// Kind identifies a graphic primitive.
type Kind string

const (
	KindLine   Kind = "line"
	KindCircle Kind = "circle"
	KindArc    Kind = "arc"
	KindRect   Kind = "rect"
	KindPoly   Kind = "poly"
)

// Graphic is one fp_* drawing primitive.
type Graphic struct {
	Kind   Kind
	Layer  string
	Start  Point // line, arc, rect
	Mid    Point // arc
	End    Point // line, arc, rect; a point on the circle for circles
	Center Point // circle
	Points []Point
	Width  float64
	Filled bool
}

// Radius of a circle.
func (g Graphic) Radius() float64 {
	return math.Hypot(g.End.X-g.Center.X, g.End.Y-g.Center.Y)
}

// Footprint is a parsed .kicad_mod file.
type Footprint struct {
	Name        string
	Layer       string
	Description string
	Tags        string
	Pads        []Pad
	Graphics    []Graphic
}

// Layers returns the distinct layers used, in first-seen order.
func (fp *Footprint) Layers() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(l string) {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for _, p := range fp.Pads {
		for _, l := range p.Layers {
			add(l)
		}
	}
	for _, g := range fp.Graphics {
		add(g.Layer)
	}
	return out
}

// ParseFile reads a .kicad_mod file.
func ParseFile(filename string) (*Footprint, error) {
	root, err := sexpr.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	fp, err := Parse(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return fp, nil
}

// Parse converts a (footprint ...) or legacy (module ...) expression.
func Parse(root *sexpr.Node) (*Footprint, error) {
	if head := root.Head(); head != "footprint" && head != "module" {
		return nil, fmt.Errorf("expected footprint, got (%s)", head)
	}

	fp := &Footprint{}
	name, err := root.String(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}
	fp.Name = name

	if n := root.Find("layer"); n != nil {
		fp.Layer, _ = n.String(1)
	}
	if n := root.Find("descr"); n != nil {
		fp.Description, _ = n.String(1)
	}
	if n := root.Find("tags"); n != nil {
		fp.Tags, _ = n.String(1)
	}

	for _, node := range root.FindAll("pad") {
		pad, err := parsePad(node)
		if err != nil {
			return nil, fmt.Errorf("pad: %w", err)
		}
		fp.Pads = append(fp.Pads, pad)
	}

	for _, child := range root.Children {
		var (
			g   Graphic
			err error
		)
		switch child.Head() {
		case "fp_line":
			g, err = parseLine(child)
		case "fp_circle":
			g, err = parseCircle(child)
		case "fp_arc":
			g, err = parseArc(child)
		case "fp_rect":
			g, err = parseRect(child)
		case "fp_poly":
			g, err = parsePoly(child)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", child.Head(), err)
		}
		fp.Graphics = append(fp.Graphics, g)
	}

	return fp, nil
}

// parsePad handles (pad "number" type shape (at x y [angle]) (size w h) (drill d) (layers ...))
func parsePad(node *sexpr.Node) (Pad, error) {
	pad := Pad{}
	var err error
	if pad.Number, err = node.String(1); err != nil {
		return pad, err
	}
	if pad.Type, err = node.String(2); err != nil {
		return pad, err
	}
	if pad.Shape, err = node.String(3); err != nil {
		return pad, err
	}

	at := node.Find("at")
	if at == nil {
		return pad, fmt.Errorf("line %d: missing required 'at' position", node.Line)
	}
	if pad.Position, err = point(at); err != nil {
		return pad, err
	}
	pad.Angle = at.FloatOr(3, 0)

	size := node.Find("size")
	if size == nil {
		return pad, fmt.Errorf("line %d: missing required 'size' field", node.Line)
	}
	w, err := size.Float(1)
	if err != nil {
		return pad, err
	}
	h, err := size.Float(2)
	if err != nil {
		return pad, err
	}
	pad.Size = Size{Width: w, Height: h}

	// (drill d) or (drill oval w h)
	if drill := node.Find("drill"); drill != nil {
		for i := 1; i < drill.Len(); i++ {
			if v, err := drill.Float(i); err == nil {
				pad.Drill = v
				break
			}
		}
	}

	layers := node.Find("layers")
	if layers == nil {
		return pad, fmt.Errorf("line %d: missing required 'layers' field", node.Line)
	}
	pad.Layers = layers.Strings()

	if r := node.Find("roundrect_rratio"); r != nil {
		pad.RoundRect = r.FloatOr(1, 0)
	}
	return pad, nil
}

func point(node *sexpr.Node) (Point, error) {
	x, err := node.Float(1)
	if err != nil {
		return Point{}, err
	}
	y, err := node.Float(2)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

func required(node *sexpr.Node, name string) (Point, error) {
	n := node.Find(name)
	if n == nil {
		return Point{}, fmt.Errorf("line %d: missing required '%s'", node.Line, name)
	}
	return point(n)
}

// common reads layer, stroke width and fill, accepting both the
// (stroke (width w)) and legacy (width w) forms.
func common(node *sexpr.Node) (Graphic, error) {
	g := Graphic{}
	layer := node.Find("layer")
	if layer == nil {
		return g, fmt.Errorf("line %d: missing required 'layer'", node.Line)
	}
	g.Layer, _ = layer.String(1)

	if stroke := node.Find("stroke"); stroke != nil {
		if w := stroke.Find("width"); w != nil {
			g.Width = w.FloatOr(1, 0)
		}
	} else if w := node.Find("width"); w != nil {
		g.Width = w.FloatOr(1, 0)
	}

	if fill := node.Find("fill"); fill != nil {
		kind, _ := fill.String(1)
		if t := fill.Find("type"); t != nil {
			kind, _ = t.String(1)
		}
		g.Filled = kind == "solid" || kind == "yes"
	}
	return g, nil
}

func parseLine(node *sexpr.Node) (Graphic, error) {
	g, err := common(node)
	if err != nil {
		return g, err
	}
	g.Kind = KindLine
	if g.Start, err = required(node, "start"); err != nil {
		return g, err
	}
	g.End, err = required(node, "end")
	return g, err
}

func parseCircle(node *sexpr.Node) (Graphic, error) {
	g, err := common(node)
	if err != nil {
		return g, err
	}
	g.Kind = KindCircle
	if g.Center, err = required(node, "center"); err != nil {
		return g, err
	}
	g.End, err = required(node, "end")
	return g, err
}

func parseRect(node *sexpr.Node) (Graphic, error) {
	g, err := common(node)
	if err != nil {
		return g, err
	}
	g.Kind = KindRect
	if g.Start, err = required(node, "start"); err != nil {
		return g, err
	}
	g.End, err = required(node, "end")
	return g, err
}

// parseArc accepts (start)(mid)(end), and the legacy form where start is
// the centre, end the first point and angle the sweep in degrees.
func parseArc(node *sexpr.Node) (Graphic, error) {
	g, err := common(node)
	if err != nil {
		return g, err
	}
	g.Kind = KindArc

	if node.Find("mid") != nil {
		if g.Start, err = required(node, "start"); err != nil {
			return g, err
		}
		if g.Mid, err = required(node, "mid"); err != nil {
			return g, err
		}
		g.End, err = required(node, "end")
		return g, err
	}

	center, err := required(node, "start")
	if err != nil {
		return g, err
	}
	first, err := required(node, "end")
	if err != nil {
		return g, err
	}
	angle := node.Find("angle")
	if angle == nil {
		return g, fmt.Errorf("line %d: arc needs 'mid' or 'angle'", node.Line)
	}
	sweep, err := angle.Float(1)
	if err != nil {
		return g, err
	}
	g.Start = first
	g.Mid = rotate(first, center, sweep/2)
	g.End = rotate(first, center, sweep)
	return g, nil
}

func parsePoly(node *sexpr.Node) (Graphic, error) {
	g, err := common(node)
	if err != nil {
		return g, err
	}
	g.Kind = KindPoly
	pts := node.Find("pts")
	if pts == nil {
		return g, fmt.Errorf("line %d: missing required 'pts'", node.Line)
	}
	for _, xy := range pts.FindAll("xy") {
		p, err := point(xy)
		if err != nil {
			return g, err
		}
		g.Points = append(g.Points, p)
	}
	return g, nil
}

// rotate turns p around c by deg degrees, clockwise on screen (KiCad's
// positive arc direction with Y pointing down).
func rotate(p, c Point, deg float64) Point {
	s, co := math.Sincos(deg * math.Pi / 180)
	dx, dy := p.X-c.X, p.Y-c.Y
	return Point{
		X: c.X + dx*co - dy*s,
		Y: c.Y + dx*s + dy*co,
	}
}
