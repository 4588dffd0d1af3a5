package template

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
)

const dipMaster = `<svg xmlns="http://www.w3.org/2000/svg" width="20mm" height="10mm" viewBox="0 0 20 10">
  <g id="layer1">
    <path id="body_path" d="m 0,0 h FILL_HERE v 5 h -1 z"/>
    <circle id="first_pin_dot" cx="0.5" cy="0.5" r="0.3"/>
    <g id="pin1" transform="translate(0 -1)"><rect id="pin1_pad" width="1" height="1"/></g>
    <g id="pin2" transform="translate(0 6)"><rect width="1" height="1"/></g>
  </g>
  <rect id="origin" x="0" y="0" width="1" height="1" fill="red"/>
</svg>`

var dipRegistry = Registry{
	Must(RoleOrigin, "origin"),
	Must(RoleBody, "body_path"),
	Must(RolePolarityMarker, "first_pin_dot"),
	Must(RolePinPrototype, "pin1"),
	Must(RolePinPrototype, "pin2"),
}

func loadDIP(t *testing.T) *svg.Document {
	t.Helper()
	doc, err := svg.ParseBytes([]byte(dipMaster))
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}
	return doc
}

func TestLocate(t *testing.T) {
	doc := loadDIP(t)
	anchors, err := dipRegistry.Locate(doc)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if anchors.Len() != 5 {
		t.Errorf("Len() = %d, want 5", anchors.Len())
	}
	for _, id := range []string{"origin", "body_path", "first_pin_dot", "pin1", "pin2"} {
		if doc.FindByID(id) != nil {
			t.Errorf("%s still attached after Locate", id)
		}
		if anchors.Get(id) == nil {
			t.Errorf("Get(%s) = nil", id)
		}
	}
	protos := anchors.Role(RolePinPrototype)
	if len(protos) != 2 || svg.ID(protos[0]) != "pin1" || svg.ID(protos[1]) != "pin2" {
		t.Errorf("Role(pin-prototype) not in registry order")
	}
	if svg.ID(anchors.First(RoleBody)) != "body_path" {
		t.Error("First(body) wrong")
	}
}

func TestLocateMissingIsAtomic(t *testing.T) {
	doc := loadDIP(t)
	svg.Detach(doc.FindByID("body_path"))

	_, err := dipRegistry.Locate(doc)
	if !errors.Is(err, ErrMissingAnchor) {
		t.Fatalf("expected ErrMissingAnchor, got %v", err)
	}
	var missing *MissingAnchorError
	if !errors.As(err, &missing) || missing.ID != "body_path" {
		t.Fatalf("expected MissingAnchorError{body_path}, got %v", err)
	}
	if doc.FindByID("origin") == nil || doc.FindByID("pin1") == nil {
		t.Error("failed Locate detached anchors")
	}
}

func TestOptionalAnchor(t *testing.T) {
	doc := loadDIP(t)
	anchors, err := Locate(doc, Must(RoleOrigin, "origin"), Optional(RoleDecoration, "nope"))
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if anchors.Get("nope") != nil || anchors.Len() != 1 {
		t.Error("optional absent anchor should be skipped")
	}
}

func TestFindDoesNotDetach(t *testing.T) {
	doc := loadDIP(t)
	if _, err := Find(doc, Must(RoleBody, "body_path")); err != nil {
		t.Fatal(err)
	}
	if doc.FindByID("body_path") == nil {
		t.Error("Find detached the element")
	}
}

func TestCloneAt(t *testing.T) {
	doc := loadDIP(t)
	proto := doc.FindByID("pin1")

	tests := []struct {
		name      string
		off       Offset
		placement Placement
		attrs     map[string]string
	}{
		{
			name:      "translate appends",
			off:       Offset{X: 2.54},
			placement: PlaceTranslate,
			attrs:     map[string]string{"transform": "translate(0 -1) translate(2.54 0)"},
		},
		{
			name:      "position sets x and y",
			off:       Offset{X: -3, Y: 1.5},
			placement: PlacePosition,
			attrs:     map[string]string{"x": "-3", "y": "1.5", "transform": "translate(0 -1)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clone := CloneAt(proto, tt.off, tt.placement)
			if svg.ID(clone) != "" {
				t.Errorf("clone carries id %q", svg.ID(clone))
			}
			for k, want := range tt.attrs {
				if got, _ := svg.Attr(clone, k); got != want {
					t.Errorf("%s = %q, want %q", k, got, want)
				}
			}
			svg.Walk(clone, func(el *etree.Element) bool {
				if svg.ID(el) != "" {
					t.Errorf("descendant carries id %q", svg.ID(el))
				}
				return true
			})
		})
	}

	if svg.ID(proto) != "pin1" {
		t.Error("prototype mutated by CloneAt")
	}
}

func TestRow(t *testing.T) {
	doc := loadDIP(t)
	anchors, err := dipRegistry.Locate(doc)
	if err != nil {
		t.Fatal(err)
	}
	protos := anchors.Role(RolePinPrototype)

	for _, pins := range []int{4, 8, 14, 32} {
		t.Run(strconv.Itoa(pins), func(t *testing.T) {
			clones, err := Row(protos, pins, 2.54)
			if err != nil {
				t.Fatalf("Row() error: %v", err)
			}
			if len(clones) != pins {
				t.Fatalf("got %d clones, want %d", len(clones), pins)
			}
			for i, c := range clones {
				if svg.ID(c) != "" {
					t.Errorf("clone %d has id", i)
				}
				tr, _ := svg.Attr(c, "transform")
				x := lastTranslateX(t, tr)
				want := float64(i/2) * 2.54
				if math.Abs(x-want) > 1e-9 {
					t.Errorf("clone %d x = %v, want %v", i, x, want)
				}
			}
		})
	}
}

func TestRowRejectsOddPins(t *testing.T) {
	for _, pins := range []int{7, 0, -2} {
		_, err := Row(nil, pins, 2.54)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Row(%d) error = %v, want ErrInvalidParameter", pins, err)
		}
	}
}

func TestStack(t *testing.T) {
	mid := etree.NewElement("g")
	mid.CreateAttr("id", "m-pin1")
	bnd := etree.NewElement("g")
	bnd.CreateAttr("id", "b-pin1")

	clones, err := Stack([]*etree.Element{mid}, []*etree.Element{bnd}, 10, 2.54)
	if err != nil {
		t.Fatal(err)
	}
	if len(clones) != 5 {
		t.Fatalf("got %d clones, want 5", len(clones))
	}
	var got []string
	for _, c := range clones {
		tr, _ := svg.Attr(c, "transform")
		got = append(got, tr)
	}
	want := []string{
		"translate(0 0)",
		"translate(0 2.54)",
		"translate(0 5.08)",
		"translate(0 " + strconv.FormatFloat(3*2.54, 'f', -1, 64) + ")",
		"translate(0 " + strconv.FormatFloat(4*2.54, 'f', -1, 64) + ")",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stack transforms mismatch (-want +got):\n%s", diff)
	}
}

func TestQuadGroups(t *testing.T) {
	proto := etree.NewElement("rect")
	proto.CreateAttr("id", "pin")
	q := QuadLayout{Pins: 8, Pitch: 1.27, Width: 3.9, Overhang: 0.5, HalfLead: 0.2}

	clones, err := QuadGroups(proto, q)
	if err != nil {
		t.Fatal(err)
	}
	if len(clones) != 8 {
		t.Fatalf("got %d clones, want 8", len(clones))
	}

	first := clones[0]
	x, _ := svg.Attr(first, "x")
	y, _ := svg.Attr(first, "y")
	wantX := -1*(3.9/2+0.5) - 0.5
	wantY := (8.0/4-1)*1.27 - 0.2 + 1.27/2
	if !closeTo(t, x, wantX) || !closeTo(t, y, wantY) {
		t.Errorf("first pin at (%s, %s), want (%v, %v)", x, y, wantX, wantY)
	}

	right, _ := svg.Attr(clones[4], "x")
	if !closeTo(t, right, 3.9/2+0.5-0.5) {
		t.Errorf("right column x = %s", right)
	}

	if _, err := QuadGroups(proto, QuadLayout{Pins: 7, Pitch: 1.27}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("QuadGroups(7) error = %v", err)
	}
}

func TestReassembleOrder(t *testing.T) {
	doc := loadDIP(t)
	anchors, err := dipRegistry.Locate(doc)
	if err != nil {
		t.Fatal(err)
	}
	pins, err := Row(anchors.Role(RolePinPrototype), 8, 2.54)
	if err != nil {
		t.Fatal(err)
	}
	parts := Parts{
		Pins:   pins,
		Body:   []*etree.Element{anchors.First(RoleBody)},
		Marker: anchors.First(RolePolarityMarker),
		Origin: anchors.First(RoleOrigin),
	}
	Reassemble(doc.Root(), parts)

	order := DrawOrder(doc.Root(), parts)
	if !order.Valid() {
		t.Errorf("draw order invalid: %+v", order)
	}
	children := doc.Root().ChildElements()
	if svg.ID(children[len(children)-1]) != "origin" {
		t.Error("origin is not the last element")
	}
	if svg.ID(children[len(children)-2]) != "first_pin_dot" {
		t.Error("marker is not second to last")
	}
	if len(order.Pins) != 8 || order.Pins[0] != 1 {
		t.Errorf("pins start at %v, want index 1 after layer1", order.Pins)
	}
}

func TestOrderValid(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{"ordered", Order{Pins: []int{0, 1}, Body: []int{2}, Marker: 3, Origin: 4}, true},
		{"missing marker", Order{Pins: []int{0}, Body: []int{1}, Marker: -1, Origin: 2}, true},
		{"origin before marker", Order{Pins: []int{0}, Body: []int{1}, Marker: 3, Origin: 2}, false},
		{"body before pins", Order{Pins: []int{1}, Body: []int{0}, Marker: 2, Origin: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParameterSetName(t *testing.T) {
	ps := ParameterSet{Family: "soic", Pins: 8, Width: 3.9, Height: 4.9}
	if got, want := ps.Name(), "family=soic pins=8 width=3.9 height=4.9"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	labelled := ps
	labelled.Label = "SOIC-8"
	if labelled.Name() != "SOIC-8" {
		t.Errorf("Name() with label = %q", labelled.Name())
	}
	if labelled.Fingerprint() != ps.Fingerprint() {
		t.Error("fingerprint depends on label")
	}
}

func TestIsSubstitutionFailure(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &SubstitutionError{Element: "body_path", Attr: "d", Err: errors.New("boom")})
	if !IsSubstitutionFailure(err) {
		t.Error("wrapped SubstitutionError not classified")
	}
	if IsSubstitutionFailure(&MissingAnchorError{ID: "x"}) {
		t.Error("MissingAnchorError classified as substitution")
	}
}

func lastTranslateX(t *testing.T, transform string) float64 {
	t.Helper()
	i := strings.LastIndex(transform, "translate(")
	if i < 0 {
		t.Fatalf("no translate in %q", transform)
	}
	fields := strings.Fields(strings.TrimSuffix(transform[i+len("translate("):], ")"))
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		t.Fatalf("parse %q: %v", transform, err)
	}
	return x
}

func closeTo(t *testing.T, s string, want float64) bool {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return math.Abs(v-want) < 1e-9
}
