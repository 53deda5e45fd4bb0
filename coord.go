package sheetcalc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// a1Pattern splits an A1 label into its column letters and 1-based row digits
var a1Pattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// ColIndexToLetters converts a zero-based column index to its letter form
// using bijective base-26 (no zero digit): 0 -> "A", 25 -> "Z", 26 -> "AA".
func ColIndexToLetters(index int) string {
	letters := ""
	n := index
	for n >= 0 {
		letters = string(rune('A'+n%26)) + letters
		n = n/26 - 1
	}
	return letters
}

// LettersToColIndex converts column letters back to a zero-based index.
// Case-insensitive; any character outside A-Z is an invalid reference.
func LettersToColIndex(letters string) (int, error) {
	if letters == "" {
		return 0, NewSheetError(ErrorCodeRef, "empty column letters")
	}
	index := 0
	for _, ch := range strings.ToUpper(letters) {
		if ch < 'A' || ch > 'Z' {
			return 0, NewSheetError(ErrorCodeRef, fmt.Sprintf("invalid column letter: %q", ch))
		}
		index = index*26 + int(ch-'A') + 1
	}
	return index - 1, nil
}

// RowColToA1 composes an A1 label from zero-based row and column indices.
// The row digits in the label are 1-based.
func RowColToA1(row, col int) string {
	return ColIndexToLetters(col) + strconv.Itoa(row+1)
}

// A1ToRowCol decomposes an A1 label into zero-based row and column indices
func A1ToRowCol(label string) (row, col int, err error) {
	m := a1Pattern.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, NewSheetError(ErrorCodeRef, fmt.Sprintf("invalid cell reference: %s", label))
	}

	col, err = LettersToColIndex(m[1])
	if err != nil {
		return 0, 0, err
	}

	rowNum, err := strconv.Atoi(m[2])
	if err != nil || rowNum < 1 {
		return 0, 0, NewSheetError(ErrorCodeRef, fmt.Sprintf("invalid row number: %s", m[2]))
	}

	return rowNum - 1, col, nil
}

// ExpandA1Range expands a "A1:B3" style range into every label in the
// rectangle spanning the two corners, in row-major order. Corner order does
// not matter: both axes are normalized to min/max before expansion.
func ExpandA1Range(ref string) ([]string, error) {
	parts := strings.Split(ref, ":")
	if len(parts) != 2 {
		return nil, NewSheetError(ErrorCodeRef, fmt.Sprintf("invalid range format: %s", ref))
	}

	startRow, startCol, err := A1ToRowCol(parts[0])
	if err != nil {
		return nil, err
	}
	endRow, endCol, err := A1ToRowCol(parts[1])
	if err != nil {
		return nil, err
	}

	r0, r1 := min(startRow, endRow), max(startRow, endRow)
	c0, c1 := min(startCol, endCol), max(startCol, endCol)

	labels := make([]string, 0, (r1-r0+1)*(c1-c0+1))
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			labels = append(labels, RowColToA1(r, c))
		}
	}
	return labels, nil
}
