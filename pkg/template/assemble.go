package template

import (
	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
)

// Parts are the pieces appended to the root of a derived document.
type Parts struct {
	Pins   []*etree.Element
	Body   []*etree.Element
	Marker *etree.Element
	Origin *etree.Element
}

// Reassemble appends pins, then body, then marker, then origin to root.
// Nil parts are skipped. Elements still attached elsewhere are moved.
func Reassemble(root *etree.Element, parts Parts) {
	add := func(el *etree.Element) {
		if el == nil {
			return
		}
		svg.Detach(el)
		root.AddChild(el)
	}
	for _, p := range parts.Pins {
		add(p)
	}
	for _, b := range parts.Body {
		add(b)
	}
	add(parts.Marker)
	add(parts.Origin)
}

// Order reports the child index of each reassembled part.
type Order struct {
	Pins   []int
	Body   []int
	Marker int
	Origin int
}

// DrawOrder returns the indices of the given parts among root's child
// elements. Missing parts report -1.
func DrawOrder(root *etree.Element, parts Parts) Order {
	index := make(map[*etree.Element]int)
	for i, child := range root.ChildElements() {
		index[child] = i
	}
	at := func(el *etree.Element) int {
		if i, ok := index[el]; ok && el != nil {
			return i
		}
		return -1
	}

	o := Order{Marker: at(parts.Marker), Origin: at(parts.Origin)}
	for _, p := range parts.Pins {
		o.Pins = append(o.Pins, at(p))
	}
	for _, b := range parts.Body {
		o.Body = append(o.Body, at(b))
	}
	return o
}

// Valid reports whether every pin precedes every body element, the body
// precedes the marker and the marker precedes the origin.
func (o Order) Valid() bool {
	last := -1
	for _, group := range [][]int{o.Pins, o.Body, {o.Marker}, {o.Origin}} {
		for _, i := range group {
			if i < 0 {
				continue
			}
			if i <= last {
				return false
			}
			last = i
		}
	}
	return true
}
