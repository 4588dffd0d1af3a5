package template

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/pathdata"
)

// Offset is a displacement in document units.
type Offset struct {
	X, Y float64
}

// Placement selects how an offset is applied to a clone.
type Placement int

const (
	// PlaceTranslate appends translate(x y) to the transform attribute.
	PlaceTranslate Placement = iota
	// PlacePosition overwrites the x and y attributes.
	PlacePosition
)

func (p Placement) String() string {
	switch p {
	case PlaceTranslate:
		return "translate"
	case PlacePosition:
		return "position"
	default:
		return "unknown"
	}
}

// CloneAt returns a deep copy of proto without its id, placed at off.
// Descendant ids are dropped as well so the derived tree stays unique.
func CloneAt(proto *etree.Element, off Offset, placement Placement) *etree.Element {
	clone := proto.Copy()
	svg.Walk(clone, func(el *etree.Element) bool {
		svg.RemoveAttr(el, "id")
		return true
	})

	x := pathdata.FormatFloat(off.X)
	y := pathdata.FormatFloat(off.Y)
	switch placement {
	case PlacePosition:
		svg.SetAttr(clone, "x", x)
		svg.SetAttr(clone, "y", y)
	default:
		translate := "translate(" + x + " " + y + ")"
		if cur, ok := svg.Attr(clone, "transform"); ok && strings.TrimSpace(cur) != "" {
			translate = strings.TrimSpace(cur) + " " + translate
		}
		svg.SetAttr(clone, "transform", translate)
	}
	return clone
}

// Row clones every prototype at (i*pitch, 0) for i in [0, pins/2). The
// prototypes themselves are never part of the result.
func Row(protos []*etree.Element, pins int, pitch float64) ([]*etree.Element, error) {
	if err := RequireEvenPins(pins); err != nil {
		return nil, err
	}
	out := make([]*etree.Element, 0, pins/2*len(protos))
	for i := 0; i < pins/2; i++ {
		off := Offset{X: float64(i) * pitch}
		for _, p := range protos {
			out = append(out, CloneAt(p, off, PlaceTranslate))
		}
	}
	return out, nil
}

// Stack clones middle prototypes at (0, i*pitch) for rows 0 through pins/2-2
// and boundary prototypes once at the last row.
func Stack(middle, boundary []*etree.Element, pins int, pitch float64) ([]*etree.Element, error) {
	if err := RequireEvenPins(pins); err != nil {
		return nil, err
	}
	rows := pins / 2
	out := make([]*etree.Element, 0, (rows-1)*len(middle)+len(boundary))
	for i := 0; i < rows-1; i++ {
		off := Offset{Y: float64(i) * pitch}
		for _, p := range middle {
			out = append(out, CloneAt(p, off, PlaceTranslate))
		}
	}
	last := Offset{Y: float64(rows-1) * pitch}
	for _, p := range boundary {
		out = append(out, CloneAt(p, last, PlaceTranslate))
	}
	return out, nil
}

// QuadLayout describes two facing pin rows of a gull-wing package.
type QuadLayout struct {
	Pins     int
	Pitch    float64
	Width    float64 // body width between the rows
	Overhang float64 // how far the lead sits past the body edge
	HalfLead float64 // half of the lead height, aligns the lead centre
}

// Position returns the x/y of pin c (1-based) on side r (-1 left, +1 right).
func (q QuadLayout) Position(r, c int) Offset {
	return Offset{
		X: float64(r)*(q.Width/2+q.Overhang) - q.Overhang,
		Y: (float64(q.Pins)/4-float64(c))*q.Pitch - q.HalfLead + q.Pitch/2,
	}
}

// QuadGroups clones proto for both sides, pins/2 per side, setting x/y.
func QuadGroups(proto *etree.Element, q QuadLayout) ([]*etree.Element, error) {
	if err := RequireEvenPins(q.Pins); err != nil {
		return nil, err
	}
	out := make([]*etree.Element, 0, q.Pins)
	for _, r := range []int{-1, 1} {
		for c := 1; c <= q.Pins/2; c++ {
			out = append(out, CloneAt(proto, q.Position(r, c), PlacePosition))
		}
	}
	return out, nil
}
