// Package masters bundles the default master drawings of every family.
package masters

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg"
)

//go:embed *.svg
var FS embed.FS

// Open returns a source serving fresh parses of the embedded master name.
func Open(name string) (svg.BytesSource, error) {
	data, err := fs.ReadFile(FS, name)
	if err != nil {
		return svg.BytesSource{}, fmt.Errorf("master %s: %w", name, err)
	}
	return svg.BytesSource{Label: "masters/" + name, Data: data}, nil
}

// Names lists the embedded masters.
func Names() []string {
	entries, _ := fs.ReadDir(FS, ".")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
