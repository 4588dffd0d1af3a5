package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/export"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	// Flag variables are package globals shared by every command.
	reset := func() {
		genAll, genTable, genOut, genManifest, genCatalog, genHistory = false, "", "", false, "", ""
		genKinds, genSizes = nil, nil
		configPath, configGlob = "", ""
		templateBack = false
		manifestForget, manifestPrune = nil, false
	}
	reset()
	t.Cleanup(reset)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestGenerateCommand(t *testing.T) {
	out := t.TempDir()
	hist := filepath.Join(t.TempDir(), "runs.db")
	if err := execute(t, "generate", "dip", "soic", "--out", out, "--manifest", "--history", hist); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	for _, name := range []string{"DIP-8_P2.54mm.svg", "SOIC-8_3.90x4.90mm_P1.27mm.svg", manifestName} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
	if err := execute(t, "history", hist); err != nil {
		t.Errorf("history error: %v", err)
	}
}

func TestGenerateFailsOnBadTable(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "dip"); err != nil {
		t.Fatal(err)
	}
	for i, row := range [][]interface{}{{"pins", "pitch"}, {8, 2.54}, {7, 2.54}} {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("dip", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	table := filepath.Join(t.TempDir(), "dip.xlsx")
	if err := f.SaveAs(table); err != nil {
		t.Fatal(err)
	}
	f.Close()

	out := t.TempDir()
	err := execute(t, "generate", "dip", "--table", table, "--out", out)
	if !errors.Is(err, template.ErrInvalidParameter) {
		t.Fatalf("generate error = %v, want ErrInvalidParameter", err)
	}
	if _, err := os.Stat(filepath.Join(out, "DIP-8_P2.54mm.svg")); err != nil {
		t.Errorf("valid row not generated: %v", err)
	}
}

func TestManifestCommand(t *testing.T) {
	out := t.TempDir()
	if err := execute(t, "generate", "dip", "--out", out, "--manifest"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if err := os.Remove(filepath.Join(out, "DIP-10_P2.54mm.svg")); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "manifest", out, "--prune"); err != nil {
		t.Fatalf("manifest --prune error: %v", err)
	}
	if err := execute(t, "manifest", out, "--forget", "DIP-8_P2.54mm.svg"); err != nil {
		t.Fatalf("manifest --forget error: %v", err)
	}
	if err := execute(t, "manifest", out, "--forget", "DIP-99.svg"); err == nil {
		t.Error("forgetting an unrecorded name succeeded")
	}
	if err := execute(t, "manifest", out); err != nil {
		t.Errorf("manifest listing error: %v", err)
	}

	m, err := export.OpenManifest(filepath.Join(out, manifestName))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	for name, want := range map[string]bool{
		"DIP-8_P2.54mm.svg":  false,
		"DIP-10_P2.54mm.svg": false,
		"DIP-12_P2.54mm.svg": true,
	} {
		if _, ok, err := m.Lookup(name); err != nil || ok != want {
			t.Errorf("Lookup(%s) = %v, %v, want %v", name, ok, err, want)
		}
	}
}

func TestGenerateNeedsFamily(t *testing.T) {
	if err := execute(t, "generate"); err == nil {
		t.Error("generate without families succeeded")
	}
	if err := execute(t, "generate", "qfn"); err == nil {
		t.Error("generate of an unknown family succeeded")
	}
}

func TestTemplateCommand(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "R_0805.svg")
	src := filepath.Join("..", "..", "..", "pkg", "kicad", "footprint", "testdata", "R_0805_2012Metric.kicad_mod")
	if err := execute(t, "template", "--back", src, dst); err != nil {
		t.Fatalf("template error: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("template not written: %v", err)
	}
}
