package svg

import (
	"fmt"
	"os"
)

// Source produces a fresh, independent Document on every call. Each sweep
// iteration loads its own copy so no mutation leaks between variants.
type Source interface {
	Load() (*Document, error)
	Name() string
}

// FileSource reloads the master from disk on every call.
type FileSource string

func (s FileSource) Load() (*Document, error) { return Load(string(s)) }
func (s FileSource) Name() string             { return string(s) }

// BytesSource parses an in-memory master on every call.
type BytesSource struct {
	Label string
	Data  []byte
}

func (s BytesSource) Load() (*Document, error) {
	doc, err := ParseBytes(s.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	return doc, nil
}

func (s BytesSource) Name() string {
	if s.Label == "" {
		return "<memory>"
	}
	return s.Label
}

// ReadSource reads filename once and serves parses of the cached bytes.
func ReadSource(filename string) (BytesSource, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return BytesSource{}, fmt.Errorf("failed to read master: %w", err)
	}
	if _, err := ParseBytes(data); err != nil {
		return BytesSource{}, fmt.Errorf("%s: %w", filename, err)
	}
	return BytesSource{Label: filename, Data: data}, nil
}
