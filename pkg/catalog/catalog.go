// Package catalog keeps a full-text index of generated templates so a
// library can be searched by family, size code or any dimension.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/blevesearch/bleve"

	"github.com/OpenTraceLab/OpenTraceTemplates/internal/logger"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

var log = logger.ForComponent("catalog")

// Document is the indexed form of one output file.
type Document struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	Family      string  `json:"family"`
	Label       string  `json:"label"`
	Kind        string  `json:"kind,omitempty"`
	Size        string  `json:"size,omitempty"`
	Series      string  `json:"series,omitempty"`
	Pins        float64 `json:"pins,omitempty"`
	Pitch       float64 `json:"pitch,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Diameter    float64 `json:"diameter,omitempty"`
	Length      float64 `json:"length,omitempty"`
	Description string  `json:"description"`
}

// NewDocument describes the file written for ps.
func NewDocument(name, path string, ps template.ParameterSet) Document {
	return Document{
		Name:        name,
		Path:        path,
		Family:      ps.Family,
		Label:       ps.Name(),
		Kind:        ps.Kind,
		Size:        ps.SizeCode,
		Series:      ps.Series,
		Pins:        float64(ps.Pins),
		Pitch:       ps.Pitch,
		Width:       ps.Width,
		Height:      ps.Height,
		Diameter:    ps.Diameter,
		Length:      ps.Length,
		Description: ps.String(),
	}
}

// Hit is one search result.
type Hit struct {
	Name   string
	Path   string
	Family string
	Label  string
	Score  float64
}

// Catalog is a bleve index on disk.
type Catalog struct {
	index bleve.Index
}

// Open opens the index at dir, creating it when absent.
func Open(dir string) (*Catalog, error) {
	var (
		index bleve.Index
		err   error
	)
	if _, statErr := os.Stat(dir); statErr == nil {
		index, err = bleve.Open(dir)
	} else if errors.Is(statErr, os.ErrNotExist) {
		index, err = bleve.New(dir, bleve.NewIndexMapping())
	} else {
		err = statErr
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", dir, err)
	}
	return &Catalog{index: index}, nil
}

// Close releases the index.
func (c *Catalog) Close() error {
	return c.index.Close()
}

// Index adds or replaces the entry for name.
func (c *Catalog) Index(name, path string, ps template.ParameterSet) error {
	if err := c.index.Index(name, NewDocument(name, path, ps)); err != nil {
		return fmt.Errorf("catalog: index %s: %w", name, err)
	}
	log.Debug("indexed", "name", name)
	return nil
}

// Remove drops the entry for name.
func (c *Catalog) Remove(name string) error {
	return c.index.Delete(name)
}

// Count returns the number of indexed templates.
func (c *Catalog) Count() (uint64, error) {
	return c.index.DocCount()
}

// Search runs a query string query ("family:soic pins:>=14", "0805") and
// returns at most limit hits, best first.
func (c *Catalog) Search(query string, limit int) ([]Hit, error) {
	q := bleve.NewQueryStringQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"path", "family", "label"}

	res, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: search %q: %w", query, err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{
			Name:   h.ID,
			Path:   field(h.Fields, "path"),
			Family: field(h.Fields, "family"),
			Label:  field(h.Fields, "label"),
			Score:  h.Score,
		})
	}
	return hits, nil
}

func field(fields map[string]interface{}, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
