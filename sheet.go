package sheetcalc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sheet is a rectangular grid of cells. Cells is sparse, keyed by
// uppercase A1 label: an absent key is an empty cell worth 0. The engine
// treats the sheet as read-only input; it belongs to the caller.
type Sheet struct {
	Name  string
	Rows  int
	Cols  int
	Cells map[string]Primitive
}

// SheetCellKey translates a dense zero-based grid position into the
// sparse cell-map key
func SheetCellKey(row, col int) string {
	return RowColToA1(row, col)
}

// ClampSheetKey validates that a label lies within the sheet's dimensions
// and returns its normalized uppercase form. Used before writes, not
// reads: out-of-bounds reads are simply empty cells.
func ClampSheetKey(sheet *Sheet, label string) (string, error) {
	row, col, err := A1ToRowCol(label)
	if err != nil {
		return "", err
	}
	if row >= sheet.Rows || col >= sheet.Cols {
		return "", NewSheetError(ErrorCodeBounds,
			fmt.Sprintf("cell %s outside sheet bounds %dx%d", strings.ToUpper(label), sheet.Rows, sheet.Cols))
	}
	return RowColToA1(row, col), nil
}

// Matrix projects the sheet into a dense rows x cols grid: the session's
// Get result for formula cells, the raw literal for everything else, and
// the fixed error marker for any cell with a recorded diagnostic. The
// session memo guarantees no cell is resolved more than once.
func (ev *Evaluation) Matrix() [][]Primitive {
	matrix := make([][]Primitive, ev.sheet.Rows)
	for r := 0; r < ev.sheet.Rows; r++ {
		row := make([]Primitive, ev.sheet.Cols)
		for c := 0; c < ev.sheet.Cols; c++ {
			label := SheetCellKey(r, c)
			raw, ok := ev.sheet.Cells[label]
			if !ok {
				continue
			}
			if _, isFormula := formulaBody(raw); isFormula {
				val := ev.Get(label)
				if _, bad := ev.errs[label]; bad {
					row[c] = ErrorMarker
				} else {
					row[c] = val
				}
			} else {
				row[c] = raw
			}
		}
		matrix[r] = row
	}
	return matrix
}

// sheetDocument is the JSON wire form of a sheet
type sheetDocument struct {
	Name  string               `json:"name"`
	Rows  int                  `json:"rows"`
	Cols  int                  `json:"cols"`
	Cells map[string]Primitive `json:"cells"`
}

// ParseSheetJSON decodes a sheet document, validating its dimensions and
// every cell label against them
func ParseSheetJSON(data []byte) (*Sheet, error) {
	var doc sheetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding sheet document: %w", err)
	}
	if doc.Rows <= 0 || doc.Cols <= 0 {
		return nil, fmt.Errorf("sheet dimensions must be positive, got %dx%d", doc.Rows, doc.Cols)
	}

	sheet := &Sheet{
		Name:  doc.Name,
		Rows:  doc.Rows,
		Cols:  doc.Cols,
		Cells: make(map[string]Primitive, len(doc.Cells)),
	}
	for label, value := range doc.Cells {
		key, err := ClampSheetKey(sheet, label)
		if err != nil {
			return nil, fmt.Errorf("cell %s: %w", label, err)
		}
		sheet.Cells[key] = value
	}
	return sheet, nil
}
