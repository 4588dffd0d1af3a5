// Package geometry computes the coordinates and outlines of derived
// footprint templates. Every function is pure; values are formatted through
// pathdata so output is deterministic.
package geometry

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/pathdata"
)

// MillimetresPerInch converts imperial size codes.
const MillimetresPerInch = 25.4

// Inches converts a length in inches to millimetres.
func Inches(v float64) float64 {
	return v * MillimetresPerInch
}

// Point is a position in document units.
type Point struct {
	X, Y float64
}

// RowSpan is the distance between the first and last pin of one row of a
// dual row package.
func RowSpan(pins int, pitch float64) float64 {
	return float64(pins/2-1) * pitch
}

// RoundedRect returns a closed outline starting at (x, y): top run, corner,
// right run, corner, bottom run, corner, left run, corner. r is subtracted
// from each straight run at both ends.
func RoundedRect(x, y, w, h, r float64) pathdata.Path {
	sw := w - 2*r
	sh := h - 2*r
	return pathdata.NewBuilder().
		MoveBy(x, y).
		HorizontalBy(sw).
		CurveBy(0, 0, r, 0, r, r).
		LineBy(0, sh).
		CurveBy(0, r, -r, r, -r, r).
		HorizontalBy(-sw).
		CurveBy(0, 0, -r, 0, -r, -r).
		LineBy(0, -sh).
		CurveBy(0, -r, r, -r, r, -r).
		Close().
		Path()
}

// SOICBody is the rounded body of a small outline package centred on the
// origin.
func SOICBody(width, height, r float64) pathdata.Path {
	return RoundedRect(r-width/2, -height/2, width, height, r)
}

// SOICMarker places the pin one dot inset from the top left body corner.
func SOICMarker(width, height, inset float64) Point {
	return Point{X: -(width/2 - inset), Y: -(height/2 - inset)}
}

// PassiveSize is the outline of a two terminal surface mount part, in
// millimetres.
type PassiveSize struct {
	Code        string  `yaml:"code" json:"code"`
	Width       float64 `yaml:"width" json:"width"`
	Height      float64 `yaml:"height" json:"height"`
	LeadWidth   float64 `yaml:"lead_width" json:"lead_width"`
	StrokeWidth float64 `yaml:"stroke_width" json:"stroke_width"`
}

// PassiveOutlines returns the body between the terminals and the two
// terminal rectangles as one path, both centred on the origin.
func PassiveOutlines(s PassiveSize) (body, leads pathdata.Path) {
	w, h, wl := s.Width, s.Height, s.LeadWidth

	leads = pathdata.NewBuilder().
		MoveTo(-w/2, h/2).
		VerticalBy(-h).
		HorizontalBy(wl).
		VerticalBy(h).
		Close().
		MoveBy(w, 0).
		VerticalBy(-h).
		HorizontalBy(-wl).
		VerticalBy(h).
		Close().
		Path()

	body = pathdata.NewBuilder().
		MoveTo(-w/2+wl, h/2).
		VerticalBy(-h).
		HorizontalBy(w - 2*wl).
		VerticalBy(h).
		Close().
		Path()
	return body, leads
}

// Radial describes the circles of a radial can between two pins.
type Radial struct {
	Radius      float64
	CenterX     float64
	InnerRadius float64
}

// RadialOutline centres a can of diameter d between pins p apart.
func RadialOutline(d, p float64) Radial {
	r := d / 2
	return Radial{Radius: r, CenterX: p / 2, InnerRadius: r / 1.5}
}

// CathodeArc is the polarity band: a chord from -angle to +angle on the
// circle of radius r at (cx, 0), closed through the centre.
func CathodeArc(r, cx, angle float64) pathdata.Path {
	x := r*math.Cos(angle) + cx
	y := r * math.Sin(angle)
	return pathdata.NewBuilder().
		MoveTo(x, -y).
		ArcTo(r, r, 0, false, true, x, y).
		LineTo(cx, 0).
		CloseAbs().
		Path()
}

// Degrees converts degrees to radians.
func Degrees(deg float64) float64 {
	return deg * math.Pi / 180
}

// Box is the body length and diameter of an axial part.
type Box struct {
	Length   float64 `yaml:"length" json:"length"`
	Diameter float64 `yaml:"diameter" json:"diameter"`
}

// Axial is the transform that maps a base body onto a target body centred
// between two pins.
type Axial struct {
	ScaleX     float64
	ScaleY     float64
	TranslateX float64
}

// AxialScale maps base onto target for a lead pitch.
func AxialScale(base, target Box, pitch float64) Axial {
	return Axial{
		ScaleX:     target.Length / base.Length,
		ScaleY:     target.Diameter / base.Diameter,
		TranslateX: pitch/2 - target.Length/2,
	}
}

// Transform renders the SVG transform attribute value.
func (a Axial) Transform() string {
	return "translate(" + pathdata.FormatFloat(a.TranslateX) + ", 0) scale(" +
		pathdata.FormatFloat(a.ScaleX) + ", " + pathdata.FormatFloat(a.ScaleY) + ")"
}

// RescaleStroke keeps a stroke at its drawn width after horizontal scaling.
func (a Axial) RescaleStroke(w float64) float64 {
	return w / a.ScaleX
}
