package family

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/geometry"
)

// Metadata modes select which editor metadata is removed from a master.
const (
	MetadataGrids     = "grids"
	MetadataNamedView = "namedview"
	MetadataKeep      = "keep"
)

// Config describes every family: masters, anchor ids, constants, tables
// and naming.
type Config struct {
	OutputDir string         `yaml:"output_dir"`
	DIP       DIPConfig      `yaml:"dip"`
	Header    HeaderConfig   `yaml:"header"`
	SOIC      SOICConfig     `yaml:"soic"`
	Passive   PassiveConfig  `yaml:"passive"`
	Radial    RadialConfig   `yaml:"radial"`
	Axial     AxialConfig    `yaml:"axial"`
	Inkscape  InkscapeConfig `yaml:"inkscape"`
}

// Common holds the settings every family shares.
type Common struct {
	Master   string `yaml:"master"`
	Naming   string `yaml:"naming"`
	Metadata string `yaml:"metadata"`
	Origin   string `yaml:"origin"`
}

// DIPConfig is the dual in-line package family.
type DIPConfig struct {
	Common      `yaml:",inline"`
	Body        string   `yaml:"body"`
	Marker      string   `yaml:"marker"`
	Pins        []string `yaml:"pins"`
	Placeholder string   `yaml:"placeholder"`
	Pitch       float64  `yaml:"pitch"`
	PinCounts   []int    `yaml:"pin_counts"`
}

// HeaderConfig is the vertical pin header family.
type HeaderConfig struct {
	Common      `yaml:",inline"`
	Body        string   `yaml:"body"`
	Marker      string   `yaml:"marker"`
	Middle      []string `yaml:"middle"`
	Boundary    []string `yaml:"boundary"`
	Placeholder string   `yaml:"placeholder"`
	Pitch       float64  `yaml:"pitch"`
	PinCounts   []int    `yaml:"pin_counts"`
}

// SOICSize is one small outline package body.
type SOICSize struct {
	Pins   int     `yaml:"pins"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SOICConfig is the small outline package family.
type SOICConfig struct {
	Common       `yaml:",inline"`
	Body         string     `yaml:"body"`
	Marker       string     `yaml:"marker"`
	Pin          string     `yaml:"pin"`
	Pitch        float64    `yaml:"pitch"`
	CornerRadius float64    `yaml:"corner_radius"`
	MarkerInset  float64    `yaml:"marker_inset"`
	Overhang     float64    `yaml:"overhang"`
	HalfLead     float64    `yaml:"half_lead"`
	Sizes        []SOICSize `yaml:"sizes"`
}

// Colors is a fill and stroke pair.
type Colors struct {
	Fill   string `yaml:"fill"`
	Stroke string `yaml:"stroke"`
}

// PassiveKind customises one component kind. Unset colours fall back to the
// family defaults.
type PassiveKind struct {
	Prefix string `yaml:"prefix"`
	Body   Colors `yaml:"body"`
	Leads  Colors `yaml:"leads"`
}

// PassiveConfig is the surface mount two terminal family.
type PassiveConfig struct {
	Common  `yaml:",inline"`
	Body    string                 `yaml:"body"`
	Leads   string                 `yaml:"leads"`
	Default PassiveKind            `yaml:"default"`
	Kinds   map[string]PassiveKind `yaml:"kinds"`
	Sizes   []geometry.PassiveSize `yaml:"sizes"`
}

// Kind returns the kind merged over the defaults.
func (c PassiveConfig) Kind(name string) (PassiveKind, bool) {
	k, ok := c.Kinds[name]
	if !ok {
		return PassiveKind{}, false
	}
	merged := c.Default
	if k.Prefix != "" {
		merged.Prefix = k.Prefix
	}
	if k.Body.Fill != "" {
		merged.Body.Fill = k.Body.Fill
	}
	if k.Body.Stroke != "" {
		merged.Body.Stroke = k.Body.Stroke
	}
	if k.Leads.Fill != "" {
		merged.Leads.Fill = k.Leads.Fill
	}
	if k.Leads.Stroke != "" {
		merged.Leads.Stroke = k.Leads.Stroke
	}
	return merged, true
}

// KindNames lists configured kinds in sorted order.
func (c PassiveConfig) KindNames() []string {
	names := make([]string, 0, len(c.Kinds))
	for name := range c.Kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size looks up a size code.
func (c PassiveConfig) Size(code string) (geometry.PassiveSize, bool) {
	for _, s := range c.Sizes {
		if s.Code == code {
			return s, true
		}
	}
	return geometry.PassiveSize{}, false
}

// RadialSize is one can diameter and lead pitch.
type RadialSize struct {
	Diameter float64 `yaml:"diameter"`
	Pitch    float64 `yaml:"pitch"`
}

// RadialConfig is the radial electrolytic capacitor family.
type RadialConfig struct {
	Common       `yaml:",inline"`
	Fill         string       `yaml:"fill"`
	Outline      string       `yaml:"outline"`
	Inner        string       `yaml:"inner"`
	Cathode      string       `yaml:"cathode"`
	CathodeAngle float64      `yaml:"cathode_angle"` // degrees
	Sizes        []RadialSize `yaml:"sizes"`
}

// AxialSeries is one body size with the pitches it is offered at.
type AxialSeries struct {
	Name     string    `yaml:"name"`
	Length   float64   `yaml:"length"`
	Diameter float64   `yaml:"diameter"`
	Pitches  []float64 `yaml:"pitches"`
}

// AxialConfig is the horizontal axial resistor family.
type AxialConfig struct {
	Common        `yaml:",inline"`
	Pin           string        `yaml:"pin"`
	Bean          string        `yaml:"bean"`
	Outline       string        `yaml:"outline"`
	BasePinLength float64       `yaml:"base_pin_length"`
	Base          geometry.Box  `yaml:"base"`
	Series        []AxialSeries `yaml:"series"`
}

// InkscapeConfig controls the optional post-processing step.
type InkscapeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Binary  string `yaml:"binary"`
}

// DefaultConfig reproduces the built-in family tables.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "export",
		DIP: DIPConfig{
			Common:      Common{Master: "dip.svg", Naming: "DIP-{{.Pins}}_P{{mm2 .Pitch}}mm.svg", Metadata: MetadataGrids, Origin: "origin"},
			Body:        "body_path",
			Marker:      "first_pin_dot",
			Pins:        []string{"pin1", "pin2"},
			Placeholder: "FILL_HERE",
			Pitch:       2.54,
			PinCounts:   []int{4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 28, 32},
		},
		Header: HeaderConfig{
			Common:      Common{Master: "header.svg", Naming: "PinHeader_2x{{half .Pins}}_P{{mm2 .Pitch}}mm_Vertical.svg", Metadata: MetadataGrids, Origin: "origin"},
			Body:        "body_path",
			Marker:      "first_pin_dot",
			Middle:      []string{"m-pin1", "m-pin2"},
			Boundary:    []string{"b-pin1", "b-pin2"},
			Placeholder: "FILL_HERE",
			Pitch:       2.54,
			PinCounts:   []int{4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 28, 32},
		},
		SOIC: SOICConfig{
			Common:       Common{Master: "soic.svg", Naming: "SOIC-{{.Pins}}_{{mm2 .Width}}x{{mm2 .Height}}mm_P{{mm2 .Pitch}}mm.svg", Metadata: MetadataGrids, Origin: "origin"},
			Body:         "body_path",
			Marker:       "first_pin_dot",
			Pin:          "pin",
			Pitch:        1.27,
			CornerRadius: 0.3,
			MarkerInset:  0.8,
			Overhang:     0.5,
			HalfLead:     0.2,
			Sizes: []SOICSize{
				{Pins: 8, Width: 3.9, Height: 4.9},
				{Pins: 8, Width: 5.3, Height: 5.3},
				{Pins: 8, Width: 5.23, Height: 5.23},
				{Pins: 14, Width: 3.9, Height: 8.7},
				{Pins: 16, Width: 3.9, Height: 9.9},
			},
		},
		Passive: PassiveConfig{
			Common: Common{Master: "passives.svg", Naming: "{{.Series}}_{{.SizeCode}}.svg", Metadata: MetadataGrids, Origin: "origin"},
			Body:   "main_body",
			Leads:  "leads",
			Default: PassiveKind{
				Prefix: "Unknown",
				Body:   Colors{Fill: "#191919", Stroke: "#6d6d6d"},
				Leads:  Colors{Fill: "#d6dcdb", Stroke: "#99abb0"},
			},
			Kinds: map[string]PassiveKind{
				"resistor":  {Prefix: "R"},
				"fuse":      {Prefix: "Fuse"},
				"capacitor": {Prefix: "C", Body: Colors{Fill: "#e1dc9c", Stroke: "#6d6d6d"}},
				"inductor":  {Prefix: "L", Body: Colors{Fill: "#916f6f", Stroke: "#483737"}},
			},
			Sizes: []geometry.PassiveSize{
				{Code: "0603", Width: geometry.Inches(0.06), Height: geometry.Inches(0.03), LeadWidth: geometry.Inches(0.01), StrokeWidth: 0.05},
				{Code: "0805", Width: geometry.Inches(0.08), Height: geometry.Inches(0.05), LeadWidth: geometry.Inches(0.015), StrokeWidth: 0.05},
				{Code: "1206", Width: geometry.Inches(0.12), Height: geometry.Inches(0.06), LeadWidth: geometry.Inches(0.02), StrokeWidth: 0.1},
				{Code: "1210", Width: geometry.Inches(0.12), Height: geometry.Inches(0.10), LeadWidth: geometry.Inches(0.02), StrokeWidth: 0.1},
			},
		},
		Radial: RadialConfig{
			Common:       Common{Master: "ecap.svg", Naming: "CP_Radial_D{{mm1 .Diameter}}mm_P{{mm2 .Pitch}}mm.svg", Metadata: MetadataNamedView, Origin: "origin"},
			Fill:         "blue_c",
			Outline:      "outline_c",
			Inner:        "inner_white_c",
			Cathode:      "cathode_m",
			CathodeAngle: 20,
			Sizes: []RadialSize{
				{4.0, 1.5}, {4.0, 2.0}, {5.0, 2.0}, {5.0, 2.5}, {6.3, 2.5}, {7.5, 2.5},
				{8.0, 2.5}, {8.0, 3.5}, {8.0, 3.8}, {8.0, 5.0},
				{10.0, 2.5}, {10.0, 3.5}, {10.0, 3.8}, {10.0, 5.0}, {10.0, 7.5},
				{12.5, 2.5}, {12.5, 5.0}, {12.5, 7.5},
				{13.0, 2.5}, {13.0, 5.0}, {13.0, 7.5},
				{14.0, 5.0}, {14.0, 7.5},
				{16.0, 7.5}, {17.0, 7.5}, {18.0, 7.5},
			},
		},
		Axial: AxialConfig{
			Common:        Common{Master: "axial.svg", Naming: "R_Axial_{{.Series}}_L{{mm1 .Length}}mm_D{{mm1 .Diameter}}mm_P{{mm2 .Pitch}}mm_Horizontal.svg", Metadata: MetadataGrids, Origin: "origin"},
			Pin:           "main_pin",
			Bean:          "res_bean",
			Outline:       "bean_outline",
			BasePinLength: 10,
			Base:          geometry.Box{Length: 6.0, Diameter: 2.075},
			Series: []AxialSeries{
				{Name: "DIN0204", Length: 3.6, Diameter: 1.6, Pitches: []float64{5.08, 7.62}},
				{Name: "DIN0207", Length: 6.3, Diameter: 2.5, Pitches: []float64{7.62, 10.16, 15.24}},
				{Name: "DIN0309", Length: 9.0, Diameter: 3.2, Pitches: []float64{12.7, 15.24, 20.32, 25.4}},
				{Name: "DIN0411", Length: 9.9, Diameter: 3.6, Pitches: []float64{12.7, 15.24, 20.32, 25.4}},
				{Name: "DIN0414", Length: 11.9, Diameter: 4.5, Pitches: []float64{15.24, 20.32, 25.4}},
			},
		},
		Inkscape: InkscapeConfig{Binary: "inkscape"},
	}
}

// LoadConfig overlays the YAML file at path onto the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Merge(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigGlob overlays every file matching pattern, in lexical order,
// onto the defaults. Later files override earlier ones.
func LoadConfigGlob(pattern string) (*Config, []string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("config glob %q: %w", pattern, err)
	}
	sort.Strings(matches)

	cfg := DefaultConfig()
	for _, m := range matches {
		if err := cfg.Merge(m); err != nil {
			return nil, nil, err
		}
	}
	return cfg, matches, nil
}

// Merge decodes the YAML file at path over c. Fields absent from the file
// keep their current values.
func (c *Config) Merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
