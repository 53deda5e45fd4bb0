package sheetcalc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadWorkbookSheet reads one worksheet of an xlsx file into a Sheet.
// An empty sheetName selects the workbook's first worksheet. Formula cells
// become "="-prefixed formula strings, numeric-looking text becomes a
// float64 literal, everything else stays a string literal.
func LoadWorkbookSheet(path, sheetName string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		names := f.GetSheetList()
		if len(names) == 0 {
			return nil, fmt.Errorf("workbook %s has no worksheets", path)
		}
		sheetName = names[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %s: %w", sheetName, err)
	}

	cells := make(map[string]Primitive)
	cols := 1
	for r, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
		for c, val := range row {
			label := SheetCellKey(r, c)

			formula, err := f.GetCellFormula(sheetName, label)
			if err != nil {
				return nil, fmt.Errorf("reading formula at %s: %w", label, err)
			}
			if formula != "" {
				cells[label] = "=" + strings.TrimPrefix(formula, "=")
				continue
			}

			if val == "" {
				continue
			}
			if num, err := strconv.ParseFloat(val, 64); err == nil {
				cells[label] = num
			} else {
				cells[label] = val
			}
		}
	}

	return &Sheet{
		Name:  sheetName,
		Rows:  max(len(rows), 1),
		Cols:  cols,
		Cells: cells,
	}, nil
}

// SaveWorkbook writes the session's dense matrix to a new xlsx file, one
// worksheet carrying the sheet's name. Formula cells are written as their
// resolved values (or the error marker), not as formulas.
func SaveWorkbook(ev *Evaluation, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	name := ev.sheet.Name
	if name == "" {
		name = "Sheet1"
	}
	if name != "Sheet1" {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("naming worksheet: %w", err)
		}
	}

	for r, row := range ev.Matrix() {
		for c, val := range row {
			if val == nil {
				continue
			}
			if err := f.SetCellValue(name, SheetCellKey(r, c), val); err != nil {
				return fmt.Errorf("writing cell %s: %w", SheetCellKey(r, c), err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
