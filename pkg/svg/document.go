// Package svg wraps an XML element tree with the operations needed to derive
// footprint templates from a master drawing: id lookup, detaching, editor
// metadata stripping and serialization.
package svg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
)

// Namespaces used by master drawings.
const (
	NamespaceSVG      = "http://www.w3.org/2000/svg"
	NamespaceSodipodi = "http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd"
	NamespaceInkscape = "http://www.inkscape.org/namespaces/inkscape"
)

// ErrDuplicateID is returned when a document holds two elements with the
// same id.
var ErrDuplicateID = errors.New("duplicate element id")

// DuplicateIDError names the repeated id.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate element id %q", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// Document is a loaded SVG drawing.
type Document struct {
	doc *etree.Document
}

// New creates an empty SVG document sized in millimetres.
func New(width, height string, viewBox string) *Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="no"`)
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", NamespaceSVG)
	root.CreateAttr("version", "1.1")
	root.CreateAttr("width", width)
	root.CreateAttr("height", height)
	root.CreateAttr("viewBox", viewBox)
	return &Document{doc: doc}
}

// Parse reads a document and checks id uniqueness.
func Parse(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("failed to parse svg: no root element")
	}

	d := &Document{doc: doc}
	if err := d.checkIDs(); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseBytes parses an in-memory document.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Load reads a document from disk.
func Load(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func (d *Document) checkIDs() error {
	seen := make(map[string]bool)
	var err error
	Walk(d.Root(), func(el *etree.Element) bool {
		id := ID(el)
		if id == "" {
			return true
		}
		if seen[id] {
			err = &DuplicateIDError{ID: id}
			return false
		}
		seen[id] = true
		return true
	})
	return err
}

// Root returns the document element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// FindByID returns the element carrying id anywhere in the tree, or nil.
func (d *Document) FindByID(id string) *etree.Element {
	var found *etree.Element
	Walk(d.Root(), func(el *etree.Element) bool {
		if ID(el) == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// IDs lists every element id in document order.
func (d *Document) IDs() []string {
	var ids []string
	Walk(d.Root(), func(el *etree.Element) bool {
		if id := ID(el); id != "" {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// Detach removes el from its parent. Detaching an element without a parent
// is a no-op.
func Detach(el *etree.Element) {
	if parent := el.Parent(); parent != nil {
		parent.RemoveChild(el)
	}
}

// StripGrids removes inkscape:grid definitions from sodipodi:namedview and
// returns how many were removed. Elements are matched by namespace URI, so
// masters declaring other prefixes are handled too.
func (d *Document) StripGrids() int {
	removed := 0
	for _, nv := range d.namedViews() {
		for _, child := range nv.ChildElements() {
			if child.Tag == "grid" && child.NamespaceURI() == NamespaceInkscape {
				nv.RemoveChild(child)
				removed++
			}
		}
	}
	return removed
}

// StripNamedView removes sodipodi:namedview entirely.
func (d *Document) StripNamedView() int {
	views := d.namedViews()
	for _, nv := range views {
		Detach(nv)
	}
	return len(views)
}

func (d *Document) namedViews() []*etree.Element {
	var views []*etree.Element
	for _, child := range d.Root().ChildElements() {
		if child.Tag == "namedview" && child.NamespaceURI() == NamespaceSodipodi {
			views = append(views, child)
		}
	}
	return views
}

// WriteTo serializes the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}

// Bytes serializes the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	return d.doc.WriteToBytes()
}

// WriteFile writes the document to filename.
func (d *Document) WriteFile(filename string) error {
	if err := d.doc.WriteToFile(filename); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// Walk visits el and its descendants depth first until fn returns false.
func Walk(el *etree.Element, fn func(*etree.Element) bool) bool {
	if el == nil {
		return true
	}
	if !fn(el) {
		return false
	}
	for _, child := range el.ChildElements() {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}

// ID returns the plain (un-namespaced) id attribute of el.
func ID(el *etree.Element) string {
	for _, a := range el.Attr {
		if a.Space == "" && a.Key == "id" {
			return a.Value
		}
	}
	return ""
}

// Attr returns the plain attribute key of el.
func Attr(el *etree.Element, key string) (string, bool) {
	for _, a := range el.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr creates or replaces the plain attribute key.
func SetAttr(el *etree.Element, key, value string) {
	for i, a := range el.Attr {
		if a.Space == "" && a.Key == key {
			el.Attr[i].Value = value
			return
		}
	}
	el.CreateAttr(key, value)
}

// RemoveAttr deletes the plain attribute key.
func RemoveAttr(el *etree.Element, key string) {
	attrs := el.Attr[:0]
	for _, a := range el.Attr {
		if a.Space == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	el.Attr = attrs
}
