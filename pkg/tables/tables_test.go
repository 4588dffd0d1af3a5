package tables

import (
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/family"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

func TestSaveLoadFamilyTables(t *testing.T) {
	cfg := family.DefaultConfig()
	want := make(map[string][]template.ParameterSet)
	for _, name := range []string{"soic", "axial"} {
		gen, err := family.New(name, cfg, family.Options{})
		if err != nil {
			t.Fatal(err)
		}
		want[name] = gen.Parameters()
	}

	path := filepath.Join(t.TempDir(), "tables.xlsx")
	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sheets, err := Sheets(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"axial", "soic"}, sheets); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}

	for name, params := range want {
		got, err := Load(path, name)
		if err != nil {
			t.Fatalf("Load(%s) error: %v", name, err)
		}
		if diff := cmp.Diff(params, got); diff != "" {
			t.Errorf("%s table mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func writeSheet(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		row := row
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+1), &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "in.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadHandWritten(t *testing.T) {
	path := writeSheet(t, "DIP", [][]interface{}{
		{"Pins", "Pitch", "Notes"},
		{8, 2.54, "classic"},
		{"", "", ""},
		{28, 2.54, "wide body"},
	})

	got, err := Load(path, "dip")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := []template.ParameterSet{
		{Family: "dip", Pins: 8, Pitch: 2.54},
		{Family: "dip", Pins: 28, Pitch: 2.54},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	path := writeSheet(t, "soic", [][]interface{}{
		{"pins", "width"},
		{8, 3.9},
		{14, "wide"},
	})

	_, err := Load(path, "soic")
	var ce *CellError
	if !errors.As(err, &ce) {
		t.Fatalf("Load() error = %v, want CellError", err)
	}
	if ce.Cell != "B3" || ce.Column != "width" {
		t.Errorf("CellError = %+v", ce)
	}

	if _, err := Load(path, "radial"); !errors.Is(err, ErrNoSheet) {
		t.Errorf("Load(radial) error = %v, want ErrNoSheet", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.xlsx"), "soic"); err == nil {
		t.Error("Load() of a missing workbook succeeded")
	}
}
