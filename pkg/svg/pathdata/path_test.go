package pathdata

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "relative rectangle",
			input: "m 0,0 h 2.54 v 1.5 h -2.54 z",
			want:  "m 0,0 h 2.54 v 1.5 h -2.54 z",
		},
		{
			name:  "compact separators",
			input: "M1,2L3-4zm.5.5",
			want:  "M 1,2 L 3,-4 z m .5,.5",
		},
		{
			name:  "placeholder argument",
			input: "m -1.27,0 h FILL_HERE v 2",
			want:  "m -1.27,0 h FILL_HERE v 2",
		},
		{
			name:  "arc",
			input: "M 3.3,-0.8 A 2.5 2.5 0 0 1 3.3 0.8 L 1 0 Z",
			want:  "M 3.3,-0.8 A 2.5,2.5 0 0 1 3.3,0.8 L 1,0 Z",
		},
		{
			name:  "compact arc flags",
			input: "m0 0a1 1 0 011 1",
			want:  "m 0,0 a 1,1 0 0 1 1,1",
		},
		{
			name:  "compact arc flags with fraction",
			input: "M0 0A2 2 0 10.5.5",
			want:  "M 0,0 A 2,2 0 1 0 .5,.5",
		},
		{
			name:    "arc flag glued to non-flag digit",
			input:   "M0 0A2 2 0 21 1 1",
			wantErr: true,
		},
		{
			name:  "exponent",
			input: "M 1e-3,2E2",
			want:  "M 1e-3,2E2",
		},
		{
			name:    "odd coordinate count",
			input:   "M 1",
			wantErr: true,
		},
		{
			name:    "arguments after close",
			input:   "z 1",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "M 1,2 ?",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %q", tt.input, p.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got := p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubstitute(t *testing.T) {
	p := MustParse("m -1.27,-1.27 h FILL_HERE c 0,0 1.27,0 1.27,1.27 z")

	got, err := p.Substitute("FILL_HERE", 7.62)
	if err != nil {
		t.Fatalf("Substitute() unexpected error: %v", err)
	}
	if want := "m -1.27,-1.27 h 7.62 c 0,0 1.27,0 1.27,1.27 z"; got.String() != want {
		t.Errorf("Substitute() = %q, want %q", got.String(), want)
	}
	if len(got.Placeholders()) != 0 {
		t.Errorf("placeholders left after substitution: %v", got.Placeholders())
	}

	// The receiver is not modified.
	if diff := cmp.Diff([]string{"FILL_HERE"}, p.Placeholders()); diff != "" {
		t.Errorf("original path changed (-want +got):\n%s", diff)
	}
}

func TestSubstituteExactlyOnce(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
	}{
		{name: "absent", input: "m 0,0 h 1 z", wantCount: 0},
		{name: "twice", input: "m 0,0 h FILL_HERE v FILL_HERE z", wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MustParse(tt.input).Substitute("FILL_HERE", 1)
			if !errors.Is(err, ErrSubstitution) {
				t.Fatalf("expected ErrSubstitution, got %v", err)
			}
			var se *SubstitutionError
			if !errors.As(err, &se) || se.Count != tt.wantCount {
				t.Errorf("SubstitutionError count = %+v, want %d", se, tt.wantCount)
			}
		})
	}
}

func TestSubstituteNumber(t *testing.T) {
	p := MustParse("m 0,0 h 10 v 0.5 h -0.5")

	got, err := p.SubstituteNumber(10, 7.62)
	if err != nil {
		t.Fatalf("SubstituteNumber() unexpected error: %v", err)
	}
	if want := "m 0,0 h 7.62 v 0.5 h -0.5"; got.String() != want {
		t.Errorf("SubstituteNumber() = %q, want %q", got.String(), want)
	}

	if _, err := p.SubstituteNumber(0.5, 1); !errors.Is(err, ErrSubstitution) {
		t.Errorf("ambiguous numeric substitution: expected ErrSubstitution, got %v", err)
	}
}

func TestBuilder(t *testing.T) {
	p := NewBuilder().
		MoveBy(-1.65, -2.45).
		HorizontalBy(3.3).
		CurveBy(0, 0, 0.3, 0, 0.3, 0.3).
		LineBy(0, 4.3).
		ArcTo(2.5, 2.5, 0, false, true, 1, 0).
		Close().
		Path()

	want := "m -1.65,-2.45 h 3.3 c 0,0 0.3,0 0.3,0.3 l 0,4.3 A 2.5,2.5 0 0 1 1,0 z"
	if got := p.String(); got != want {
		t.Errorf("Builder path = %q, want %q", got, want)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("built path does not validate: %v", err)
	}

	reparsed, err := Parse(p.String())
	if err != nil {
		t.Fatalf("built path does not parse: %v", err)
	}
	if reparsed.String() != want {
		t.Errorf("reparsed = %q, want %q", reparsed.String(), want)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.0 * 1, "0"},
		{2.54, "2.54"},
		{-1.15, "-1.15"},
		{0.015, "0.015"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
