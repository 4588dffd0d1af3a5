// Package template turns a master drawing into derived variants: it locates
// anchor elements, clones pin prototypes at computed offsets and reassembles
// the parts in a fixed draw order.
package template

import (
	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
)

// Role is the function an anchor plays in a master drawing.
type Role string

const (
	RoleOrigin         Role = "origin"
	RoleBody           Role = "body"
	RolePinPrototype   Role = "pin-prototype"
	RolePolarityMarker Role = "polarity-marker"
	RoleBoundaryPin    Role = "boundary-pin"
	RoleDecoration     Role = "decoration"
)

// AnchorSpec binds an element id to a role.
type AnchorSpec struct {
	Role     Role
	ID       string
	Required bool
}

// Must returns a required anchor spec.
func Must(role Role, id string) AnchorSpec {
	return AnchorSpec{Role: role, ID: id, Required: true}
}

// Optional returns an anchor spec that may be absent.
func Optional(role Role, id string) AnchorSpec {
	return AnchorSpec{Role: role, ID: id}
}

// Registry is the ordered anchor set of one family.
type Registry []AnchorSpec

// Locate detaches every anchor of the registry from doc.
func (r Registry) Locate(doc *svg.Document) (*Anchors, error) {
	return Locate(doc, r...)
}

// Find returns the anchors of the registry without detaching them.
func (r Registry) Find(doc *svg.Document) (*Anchors, error) {
	return Find(doc, r...)
}

// Anchors holds located elements keyed by id, in registry order.
type Anchors struct {
	specs []AnchorSpec
	byID  map[string]*etree.Element
}

// Get returns the element for id, or nil when it was optional and absent.
func (a *Anchors) Get(id string) *etree.Element {
	return a.byID[id]
}

// Role returns the located elements bound to role in registry order.
func (a *Anchors) Role(role Role) []*etree.Element {
	var out []*etree.Element
	for _, s := range a.specs {
		if s.Role != role {
			continue
		}
		if el := a.byID[s.ID]; el != nil {
			out = append(out, el)
		}
	}
	return out
}

// First returns the first element bound to role, or nil.
func (a *Anchors) First(role Role) *etree.Element {
	if els := a.Role(role); len(els) > 0 {
		return els[0]
	}
	return nil
}

// Len reports how many anchors were found.
func (a *Anchors) Len() int { return len(a.byID) }

// Find looks up each anchor anywhere in the tree. A required id that is
// absent yields a *MissingAnchorError.
func Find(doc *svg.Document, specs ...AnchorSpec) (*Anchors, error) {
	anchors := &Anchors{specs: specs, byID: make(map[string]*etree.Element, len(specs))}
	for _, s := range specs {
		el := doc.FindByID(s.ID)
		if el == nil {
			if s.Required {
				return nil, &MissingAnchorError{ID: s.ID, Role: s.Role}
			}
			continue
		}
		anchors.byID[s.ID] = el
	}
	return anchors, nil
}

// Locate finds every anchor and detaches it from its parent. Nothing is
// detached unless all required anchors are present.
func Locate(doc *svg.Document, specs ...AnchorSpec) (*Anchors, error) {
	anchors, err := Find(doc, specs...)
	if err != nil {
		return nil, err
	}
	for _, s := range specs {
		if el := anchors.byID[s.ID]; el != nil {
			svg.Detach(el)
		}
	}
	return anchors, nil
}
