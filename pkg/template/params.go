package template

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/pathdata"
)

// ParameterSet holds the values for one derived variant. Families read the
// subset they need; zero means unset. It is passed by value and never
// mutated after construction.
type ParameterSet struct {
	Family   string `yaml:"family,omitempty" json:"family,omitempty"`
	Label    string `yaml:"label,omitempty" json:"label,omitempty"`
	Kind     string `yaml:"kind,omitempty" json:"kind,omitempty"`         // passive component kind
	SizeCode string `yaml:"size,omitempty" json:"size,omitempty"`         // e.g. "0805"
	Series   string `yaml:"series,omitempty" json:"series,omitempty"`     // e.g. "DIN0207"

	Pins         int     `yaml:"pins,omitempty" json:"pins,omitempty"`
	Pitch        float64 `yaml:"pitch,omitempty" json:"pitch,omitempty"`
	Width        float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Height       float64 `yaml:"height,omitempty" json:"height,omitempty"`
	Diameter     float64 `yaml:"diameter,omitempty" json:"diameter,omitempty"`
	Length       float64 `yaml:"length,omitempty" json:"length,omitempty"`
	LeadWidth    float64 `yaml:"lead_width,omitempty" json:"lead_width,omitempty"`
	CornerRadius float64 `yaml:"corner_radius,omitempty" json:"corner_radius,omitempty"`
	StrokeWidth  float64 `yaml:"stroke_width,omitempty" json:"stroke_width,omitempty"`
}

// String renders the non-zero fields, used in logs and error context.
func (p ParameterSet) String() string {
	var parts []string
	add := func(k, v string) { parts = append(parts, k+"="+v) }
	if p.Family != "" {
		add("family", p.Family)
	}
	if p.Kind != "" {
		add("kind", p.Kind)
	}
	if p.SizeCode != "" {
		add("size", p.SizeCode)
	}
	if p.Series != "" {
		add("series", p.Series)
	}
	if p.Pins != 0 {
		add("pins", fmt.Sprint(p.Pins))
	}
	for _, f := range []struct {
		k string
		v float64
	}{
		{"pitch", p.Pitch},
		{"width", p.Width},
		{"height", p.Height},
		{"diameter", p.Diameter},
		{"length", p.Length},
		{"lead_width", p.LeadWidth},
		{"corner_radius", p.CornerRadius},
		{"stroke_width", p.StrokeWidth},
	} {
		if f.v != 0 {
			add(f.k, pathdata.FormatFloat(f.v))
		}
	}
	return strings.Join(parts, " ")
}

// Name returns Label, falling back to the field rendering.
func (p ParameterSet) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return p.String()
}

// Fingerprint is a stable identity of the values, independent of Label.
func (p ParameterSet) Fingerprint() string {
	p.Label = ""
	return p.String()
}

// RequireEvenPins checks that pins is a positive even count.
func RequireEvenPins(pins int) error {
	if pins <= 0 {
		return &InvalidParameterError{Name: "pins", Value: pins, Reason: "must be positive"}
	}
	if pins%2 != 0 {
		return &InvalidParameterError{Name: "pins", Value: pins, Reason: "layout requires an even pin count"}
	}
	return nil
}

// RequirePositive checks that a dimension is set and positive.
func RequirePositive(name string, v float64) error {
	if v <= 0 {
		return &InvalidParameterError{Name: name, Value: v, Reason: "must be positive"}
	}
	return nil
}
