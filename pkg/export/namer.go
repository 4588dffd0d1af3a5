// Package export writes derived documents to disk under names synthesized
// from their parameters, detects name collisions and runs optional
// post-processing.
package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	tmpl "github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

var funcs = template.FuncMap{
	"mm1":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"mm2":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"half":  func(n int) int { return n / 2 },
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
}

// Namer renders output file names from a parameter set.
type Namer struct {
	text string
	tmpl *template.Template
}

// NewNamer parses a naming template such as
// "SOIC-{{.Pins}}_{{mm2 .Width}}x{{mm2 .Height}}mm.svg".
func NewNamer(text string) (*Namer, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("naming template is empty")
	}
	t, err := template.New("name").Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("naming template %q: %w", text, err)
	}
	return &Namer{text: text, tmpl: t}, nil
}

// MustNamer is NewNamer for static templates.
func MustNamer(text string) *Namer {
	n, err := NewNamer(text)
	if err != nil {
		panic(err)
	}
	return n
}

// Name renders the file name for ps.
func (n *Namer) Name(ps tmpl.ParameterSet) (string, error) {
	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, ps); err != nil {
		return "", fmt.Errorf("render name for %s: %w", ps.Name(), err)
	}
	name := strings.TrimSpace(buf.String())
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("render name for %s: %q is not a plain file name", ps.Name(), name)
	}
	if filepath.Ext(name) == "" {
		name += ".svg"
	}
	return name, nil
}

func (n *Namer) String() string { return n.text }
