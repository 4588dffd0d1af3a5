package sexpr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "atom list", input: "(at 1.27 -2.5 90)", want: "(at 1.27 -2.5 90)"},
		{name: "nested", input: "(pad \"1\" smd rect (at 0 0) (layers \"F.Cu\"))", want: "(pad \"1\" smd rect (at 0 0) (layers \"F.Cu\"))"},
		{name: "hash is a symbol", input: "(net 1 #PWR01)", want: "(net 1 #PWR01)"},
		{name: "escaped quote", input: `(descr "a \"b\"")`, want: `(descr "a \"b\"")`},
		{name: "multiline", input: "(a\n  (b 1)\n  (c 2))", want: "(a (b 1) (c 2))"},
		{name: "unbalanced", input: "(a (b 1)", wantErr: true},
		{name: "stray close", input: ")", wantErr: true},
		{name: "two roots", input: "(a) (b)", wantErr: true},
		{name: "empty", input: "  ", wantErr: true},
		{name: "open string", input: `(a "b)`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := ParseString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := node.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNodeAccessors(t *testing.T) {
	node, err := ParseString(`(footprint "R_0805"
  (layer "F.Cu")
  (attr smd)
  (fp_line (start 0 0) (end 1 0))
  (fp_line (start 1 0) (end 1 1))
  (at 1.5 bad))`)
	if err != nil {
		t.Fatal(err)
	}

	if node.Head() != "footprint" {
		t.Errorf("Head() = %q", node.Head())
	}
	name, err := node.String(1)
	if err != nil || name != "R_0805" || !node.Arg(1).Quoted {
		t.Errorf("String(1) = %q, %v", name, err)
	}
	if len(node.FindAll("fp_line")) != 2 {
		t.Errorf("FindAll(fp_line) = %d", len(node.FindAll("fp_line")))
	}
	if node.Find("model") != nil {
		t.Error("Find(model) should be nil")
	}
	if !node.Find("attr").Has("smd") {
		t.Error("attr should contain smd")
	}

	at := node.Find("at")
	if v, err := at.Float(1); err != nil || v != 1.5 {
		t.Errorf("Float(1) = %v, %v", v, err)
	}
	if _, err := at.Float(2); err == nil {
		t.Error("Float(2) accepted a non-number")
	}
	if got := at.FloatOr(3, 7); got != 7 {
		t.Errorf("FloatOr(3) = %v", got)
	}
	if at.Line != 6 {
		t.Errorf("at.Line = %d, want 6", at.Line)
	}

	if diff := cmp.Diff([]string{"R_0805"}, node.Strings()); diff != "" {
		t.Errorf("Strings() mismatch (-want +got):\n%s", diff)
	}
}
