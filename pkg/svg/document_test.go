package svg

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const master = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:sodipodi="http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
     width="10mm" height="10mm" viewBox="0 0 10 10">
  <sodipodi:namedview id="namedview1" pagecolor="#ffffff">
    <inkscape:grid type="xygrid" id="grid1"/>
    <inkscape:grid type="xygrid" id="grid2"/>
  </sodipodi:namedview>
  <g id="layer1">
    <rect id="pin1" x="0" y="0" width="1" height="1"/>
    <g id="nested"><circle id="dot" cx="1" cy="1" r="0.2"/></g>
  </g>
  <rect id="origin" x="0" y="0" width="1" height="1" fill="red"/>
</svg>`

func TestParseAndFind(t *testing.T) {
	doc, err := Parse(strings.NewReader(master))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := []string{"namedview1", "grid1", "grid2", "layer1", "pin1", "nested", "dot", "origin"}
	if diff := cmp.Diff(want, doc.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}

	dot := doc.FindByID("dot")
	if dot == nil {
		t.Fatal("FindByID(dot) = nil, want nested circle")
	}
	if v, _ := Attr(dot, "r"); v != "0.2" {
		t.Errorf("dot r = %q, want 0.2", v)
	}
	if doc.FindByID("missing") != nil {
		t.Error("FindByID(missing) should be nil")
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg"><rect id="a"/><g><rect id="a"/></g></svg>`
	_, err := Parse(strings.NewReader(src))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestStripGrids(t *testing.T) {
	doc, err := ParseBytes([]byte(master))
	if err != nil {
		t.Fatal(err)
	}
	if n := doc.StripGrids(); n != 2 {
		t.Errorf("StripGrids() = %d, want 2", n)
	}
	if doc.FindByID("grid1") != nil || doc.FindByID("grid2") != nil {
		t.Error("grids still present after StripGrids")
	}
	if doc.FindByID("namedview1") == nil {
		t.Error("namedview removed by StripGrids")
	}
	if n := doc.StripNamedView(); n != 1 || doc.FindByID("namedview1") != nil {
		t.Errorf("StripNamedView() = %d, namedview still present = %v", n, doc.FindByID("namedview1") != nil)
	}
}

func TestStripGridsByNamespace(t *testing.T) {
	const renamed = `<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:sp="http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd"
     xmlns:ink="http://www.inkscape.org/namespaces/inkscape"
     xmlns:other="urn:example:other">
  <sp:namedview id="view">
    <ink:grid id="grid1"/>
    <other:grid id="keep"/>
  </sp:namedview>
  <other:namedview id="foreign"><ink:grid id="grid2"/></other:namedview>
</svg>`
	doc, err := ParseBytes([]byte(renamed))
	if err != nil {
		t.Fatal(err)
	}
	if n := doc.StripGrids(); n != 1 {
		t.Errorf("StripGrids() = %d, want 1", n)
	}
	if doc.FindByID("grid1") != nil {
		t.Error("prefixed inkscape grid kept")
	}
	for _, id := range []string{"keep", "grid2"} {
		if doc.FindByID(id) == nil {
			t.Errorf("%s removed although outside the editor namespaces", id)
		}
	}
	if n := doc.StripNamedView(); n != 1 || doc.FindByID("foreign") == nil {
		t.Errorf("StripNamedView() = %d, foreign namedview kept = %v", n, doc.FindByID("foreign") != nil)
	}
}

func TestDetachAndAttrs(t *testing.T) {
	doc, _ := ParseBytes([]byte(master))
	dot := doc.FindByID("dot")
	Detach(dot)
	if doc.FindByID("dot") != nil {
		t.Error("detached element still reachable")
	}
	Detach(dot)

	SetAttr(dot, "cx", "2.5")
	SetAttr(dot, "transform", "translate(1 0)")
	RemoveAttr(dot, "id")
	if ID(dot) != "" {
		t.Error("id not removed")
	}
	if v, _ := Attr(dot, "cx"); v != "2.5" {
		t.Errorf("cx = %q", v)
	}
	if v, ok := Attr(dot, "transform"); !ok || v != "translate(1 0)" {
		t.Errorf("transform = %q, %v", v, ok)
	}
}

func TestSourcesAreIndependent(t *testing.T) {
	src := BytesSource{Label: "master", Data: []byte(master)}

	first, err := src.Load()
	if err != nil {
		t.Fatal(err)
	}
	Detach(first.FindByID("origin"))

	second, err := src.Load()
	if err != nil {
		t.Fatal(err)
	}
	if second.FindByID("origin") == nil {
		t.Error("mutation of one load leaked into the next")
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	doc := New("3mm", "2mm", "0 0 3 2")
	rect := doc.Root().CreateElement("rect")
	rect.CreateAttr("id", "origin")

	path := filepath.Join(t.TempDir(), "out.svg")
	if err := doc.WriteFile(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.FindByID("origin") == nil {
		t.Error("origin missing after round trip")
	}
	if v, _ := Attr(loaded.Root(), "viewBox"); v != "0 0 3 2" {
		t.Errorf("viewBox = %q", v)
	}
}
