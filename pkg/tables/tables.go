// Package tables reads and writes family parameter tables as spreadsheets.
// Each family lives on a sheet of its own name; the first row names the
// columns using the same keys as the YAML configuration.
package tables

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/svg/pathdata"
	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

// ErrNoSheet is returned when a workbook has no sheet for the family.
var ErrNoSheet = errors.New("no sheet for family")

// CellError locates a bad value.
type CellError struct {
	Sheet  string
	Cell   string
	Column string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s!%s (%s): %v", e.Sheet, e.Cell, e.Column, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

type column struct {
	name string
	get  func(template.ParameterSet) string
	set  func(*template.ParameterSet, string) error
}

func textColumn(name string, get func(template.ParameterSet) string, set func(*template.ParameterSet, string)) column {
	return column{name: name, get: get, set: func(ps *template.ParameterSet, v string) error {
		set(ps, v)
		return nil
	}}
}

func numberColumn(name string, field func(*template.ParameterSet) *float64) column {
	return column{
		name: name,
		get: func(ps template.ParameterSet) string {
			v := *field(&ps)
			if v == 0 {
				return ""
			}
			return pathdata.FormatFloat(v)
		},
		set: func(ps *template.ParameterSet, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			*field(ps) = f
			return nil
		},
	}
}

var columns = []column{
	textColumn("label", func(ps template.ParameterSet) string { return ps.Label }, func(ps *template.ParameterSet, v string) { ps.Label = v }),
	textColumn("kind", func(ps template.ParameterSet) string { return ps.Kind }, func(ps *template.ParameterSet, v string) { ps.Kind = v }),
	textColumn("size", func(ps template.ParameterSet) string { return ps.SizeCode }, func(ps *template.ParameterSet, v string) { ps.SizeCode = v }),
	textColumn("series", func(ps template.ParameterSet) string { return ps.Series }, func(ps *template.ParameterSet, v string) { ps.Series = v }),
	{
		name: "pins",
		get: func(ps template.ParameterSet) string {
			if ps.Pins == 0 {
				return ""
			}
			return strconv.Itoa(ps.Pins)
		},
		set: func(ps *template.ParameterSet, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			ps.Pins = n
			return nil
		},
	},
	numberColumn("pitch", func(ps *template.ParameterSet) *float64 { return &ps.Pitch }),
	numberColumn("width", func(ps *template.ParameterSet) *float64 { return &ps.Width }),
	numberColumn("height", func(ps *template.ParameterSet) *float64 { return &ps.Height }),
	numberColumn("diameter", func(ps *template.ParameterSet) *float64 { return &ps.Diameter }),
	numberColumn("length", func(ps *template.ParameterSet) *float64 { return &ps.Length }),
	numberColumn("lead_width", func(ps *template.ParameterSet) *float64 { return &ps.LeadWidth }),
	numberColumn("corner_radius", func(ps *template.ParameterSet) *float64 { return &ps.CornerRadius }),
	numberColumn("stroke_width", func(ps *template.ParameterSet) *float64 { return &ps.StrokeWidth }),
}

func lookup(name string) (column, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range columns {
		if c.name == name {
			return c, true
		}
	}
	return column{}, false
}

// Columns lists the recognised header names in write order.
func Columns() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// Sheets returns the sheet names of the workbook at path.
func Sheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("tables: open %s: %w", path, err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// Load reads the parameter table of family from the workbook at path. The
// sheet name is matched case-insensitively. Blank rows are skipped and
// unknown columns are ignored.
func Load(path, family string) ([]template.ParameterSet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("tables: open %s: %w", path, err)
	}
	defer f.Close()

	sheet := ""
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, family) {
			sheet = name
			break
		}
	}
	if sheet == "" {
		return nil, fmt.Errorf("tables: %s: %w %q", path, ErrNoSheet, family)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("tables: read %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]*column, len(rows[0]))
	for i, name := range rows[0] {
		if c, ok := lookup(name); ok {
			header[i] = &c
		}
	}

	var out []template.ParameterSet
	for r, row := range rows[1:] {
		ps := template.ParameterSet{Family: family}
		blank := true
		for i, value := range row {
			value = strings.TrimSpace(value)
			if i >= len(header) || header[i] == nil || value == "" {
				continue
			}
			blank = false
			if err := header[i].set(&ps, value); err != nil {
				cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
				return nil, &CellError{Sheet: sheet, Cell: cell, Column: header[i].name, Err: err}
			}
		}
		if !blank {
			out = append(out, ps)
		}
	}
	return out, nil
}

// Save writes one sheet per family, families sorted by name. Only columns
// used by at least one row of a family are written.
func Save(path string, tables map[string][]template.ParameterSet) error {
	f := excelize.NewFile()
	defer f.Close()

	families := make([]string, 0, len(tables))
	for name := range tables {
		families = append(families, name)
	}
	sort.Strings(families)
	if len(families) == 0 {
		return fmt.Errorf("tables: nothing to write")
	}

	for i, family := range families {
		rows := tables[family]
		if i == 0 {
			if err := f.SetSheetName("Sheet1", family); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(family); err != nil {
			return err
		}

		var used []column
		for _, c := range columns {
			for _, ps := range rows {
				if c.get(ps) != "" {
					used = append(used, c)
					break
				}
			}
		}

		header := make([]interface{}, len(used))
		for j, c := range used {
			header[j] = c.name
		}
		if err := f.SetSheetRow(family, "A1", &header); err != nil {
			return err
		}
		for r, ps := range rows {
			values := make([]interface{}, len(used))
			for j, c := range used {
				values[j] = c.get(ps)
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(family, cell, &values); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("tables: save %s: %w", path, err)
	}
	return nil
}
