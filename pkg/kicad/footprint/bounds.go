package footprint

import "math"

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min Point // Minimum (top-left) corner
	Max Point // Maximum (bottom-right) corner
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// IsEmpty checks if the bounding box is empty
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand expands the bounding box to include a position
func (bb *BoundingBox) Expand(p Point) {
	bb.Min.X = math.Min(bb.Min.X, p.X)
	bb.Min.Y = math.Min(bb.Min.Y, p.Y)
	bb.Max.X = math.Max(bb.Max.X, p.X)
	bb.Max.Y = math.Max(bb.Max.Y, p.Y)
}

// ExpandBy includes a square of half-size r around p.
func (bb *BoundingBox) ExpandBy(p Point, r float64) {
	bb.Expand(Point{X: p.X - r, Y: p.Y - r})
	bb.Expand(Point{X: p.X + r, Y: p.Y + r})
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() float64 {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() float64 {
	return bb.Max.Y - bb.Min.Y
}

// Bounds covers every pad and graphic including half stroke widths. The
// origin is always included.
func (fp *Footprint) Bounds() BoundingBox {
	bb := NewBoundingBox()
	bb.Expand(Point{})

	for _, pad := range fp.Pads {
		for _, c := range pad.Corners() {
			bb.Expand(c)
		}
	}

	for _, g := range fp.Graphics {
		hw := g.Width / 2
		switch g.Kind {
		case KindLine, KindRect:
			bb.ExpandBy(g.Start, hw)
			bb.ExpandBy(g.End, hw)
		case KindCircle:
			bb.ExpandBy(g.Center, g.Radius()+hw)
		case KindArc:
			for _, p := range g.ArcPoints(32) {
				bb.ExpandBy(p, hw)
			}
		case KindPoly:
			for _, p := range g.Points {
				bb.ExpandBy(p, hw)
			}
		}
	}
	return bb
}

// Corners returns the pad outline rectangle after rotation.
func (p Pad) Corners() []Point {
	w, h := p.Size.Width/2, p.Size.Height/2
	corners := []Point{
		{X: p.Position.X - w, Y: p.Position.Y - h},
		{X: p.Position.X + w, Y: p.Position.Y - h},
		{X: p.Position.X + w, Y: p.Position.Y + h},
		{X: p.Position.X - w, Y: p.Position.Y + h},
	}
	if p.Angle == 0 || p.Shape == "circle" {
		return corners
	}
	for i, c := range corners {
		corners[i] = rotate(c, p.Position, -p.Angle)
	}
	return corners
}

// ArcGeometry describes an arc through Start, Mid and End.
type ArcGeometry struct {
	Center    Point
	Radius    float64
	Clockwise bool    // on screen, Y down
	Sweep     float64 // radians, positive
	start     float64
}

// Arc solves the circle through the three arc points. ok is false when the
// points are collinear.
func (g Graphic) Arc() (ArcGeometry, bool) {
	a, b, c := g.Start, g.Mid, g.End
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-12 {
		return ArcGeometry{}, false
	}
	a2, b2, c2 := a.X*a.X+a.Y*a.Y, b.X*b.X+b.Y*b.Y, c.X*c.X+c.Y*c.Y
	center := Point{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}

	cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
	start := math.Atan2(a.Y-center.Y, a.X-center.X)
	end := math.Atan2(c.Y-center.Y, c.X-center.X)
	sweep := end - start
	cw := cross > 0
	if !cw {
		sweep = -sweep
	}
	sweep = math.Mod(sweep+4*math.Pi, 2*math.Pi)

	return ArcGeometry{
		Center:    center,
		Radius:    math.Hypot(a.X-center.X, a.Y-center.Y),
		Clockwise: cw,
		Sweep:     sweep,
		start:     start,
	}, true
}

// ArcPoints samples the arc at n+1 points. Collinear arcs yield their three
// defining points.
func (g Graphic) ArcPoints(n int) []Point {
	arc, ok := g.Arc()
	if !ok {
		return []Point{g.Start, g.Mid, g.End}
	}
	dir := -1.0
	if arc.Clockwise {
		dir = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := arc.start + dir*arc.Sweep*float64(i)/float64(n)
		pts = append(pts, Point{
			X: arc.Center.X + arc.Radius*math.Cos(t),
			Y: arc.Center.Y + arc.Radius*math.Sin(t),
		})
	}
	return pts
}
