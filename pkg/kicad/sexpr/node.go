// Package sexpr is a small S-expression reader for KiCad files.
package sexpr

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is an atom or a list.
type Node struct {
	Value    string // atom text
	Quoted   bool
	Children []*Node
	Line     int

	list bool
}

// IsList reports whether n is a list.
func (n *Node) IsList() bool { return n != nil && n.list }

// Head returns the leading symbol of a list, or "" for atoms and empty lists.
func (n *Node) Head() string {
	if !n.IsList() || len(n.Children) == 0 || n.Children[0].IsList() {
		return ""
	}
	return n.Children[0].Value
}

// Len is the number of list elements including the head.
func (n *Node) Len() int {
	if !n.IsList() {
		return 0
	}
	return len(n.Children)
}

// Arg returns element i of a list (0 is the head), or nil.
func (n *Node) Arg(i int) *Node {
	if !n.IsList() || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Find returns the first direct child list whose head is name.
func (n *Node) Find(name string) *Node {
	if !n.IsList() {
		return nil
	}
	for _, child := range n.Children {
		if child.Head() == name {
			return child
		}
	}
	return nil
}

// FindAll returns every direct child list whose head is name.
func (n *Node) FindAll(name string) []*Node {
	if !n.IsList() {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child.Head() == name {
			out = append(out, child)
		}
	}
	return out
}

// Has reports whether any atom argument equals sym.
func (n *Node) Has(sym string) bool {
	for _, child := range n.Children[min(1, len(n.Children)):] {
		if !child.IsList() && child.Value == sym {
			return true
		}
	}
	return false
}

// String returns atom argument i.
func (n *Node) String(i int) (string, error) {
	arg := n.Arg(i)
	if arg == nil {
		return "", fmt.Errorf("line %d: (%s) has no argument %d", n.Line, n.Head(), i)
	}
	if arg.IsList() {
		return "", fmt.Errorf("line %d: (%s) argument %d is a list", n.Line, n.Head(), i)
	}
	return arg.Value, nil
}

// Strings returns every atom argument after the head.
func (n *Node) Strings() []string {
	var out []string
	for _, child := range n.Children[min(1, len(n.Children)):] {
		if !child.IsList() {
			out = append(out, child.Value)
		}
	}
	return out
}

// Float parses atom argument i.
func (n *Node) Float(i int) (float64, error) {
	s, err := n.String(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: (%s) argument %d: %w", n.Line, n.Head(), i, err)
	}
	return v, nil
}

// FloatOr returns Float(i), or def when the argument is absent or not a
// number.
func (n *Node) FloatOr(i int, def float64) float64 {
	if v, err := n.Float(i); err == nil {
		return v
	}
	return def
}

// Format renders n back to text.
func (n *Node) Format() string {
	var sb strings.Builder
	n.format(&sb)
	return sb.String()
}

func (n *Node) format(sb *strings.Builder) {
	if !n.IsList() {
		if n.Quoted {
			sb.WriteString(strconv.Quote(n.Value))
		} else {
			sb.WriteString(n.Value)
		}
		return
	}
	sb.WriteByte('(')
	for i, child := range n.Children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		child.format(sb)
	}
	sb.WriteByte(')')
}
