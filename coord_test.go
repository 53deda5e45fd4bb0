package sheetcalc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColIndexToLetters(t *testing.T) {
	cases := map[int]string{
		0:     "A",
		1:     "B",
		25:    "Z",
		26:    "AA",
		27:    "AB",
		51:    "AZ",
		52:    "BA",
		701:   "ZZ",
		702:   "AAA",
		18277: "ZZZ",
	}
	for index, want := range cases {
		assert.Equal(t, want, ColIndexToLetters(index), "index %d", index)
	}
}

func TestLettersToColIndex(t *testing.T) {
	cases := map[string]int{
		"A":   0,
		"b":   1,
		"Z":   25,
		"AA":  26,
		"az":  51,
		"ZZZ": 18277,
	}
	for letters, want := range cases {
		got, err := LettersToColIndex(letters)
		require.NoError(t, err, "letters %q", letters)
		assert.Equal(t, want, got, "letters %q", letters)
	}
}

func TestLettersToColIndexInvalid(t *testing.T) {
	for _, letters := range []string{"", "A1", "Ä", "A-B", "!"} {
		_, err := LettersToColIndex(letters)
		require.Error(t, err, "letters %q", letters)
		var sheetErr *SheetError
		require.ErrorAs(t, err, &sheetErr)
		assert.Equal(t, ErrorCodeRef, sheetErr.Code)
	}
}

func TestA1RoundTrip(t *testing.T) {
	// every column expressible in up to three letters, a few rows each
	for col := 0; col < 18278; col++ {
		for _, row := range []int{0, 1, 41, 999} {
			label := RowColToA1(row, col)
			gotRow, gotCol, err := A1ToRowCol(label)
			require.NoError(t, err, "label %s", label)
			require.Equal(t, row, gotRow, "label %s", label)
			require.Equal(t, col, gotCol, "label %s", label)
		}
	}
}

func TestA1ToRowCol(t *testing.T) {
	// row 2, col 0 is "A3": label digits are 1-based
	row, col, err := A1ToRowCol("A3")
	require.NoError(t, err)
	assert.Equal(t, 2, row)
	assert.Equal(t, 0, col)

	row, col, err = A1ToRowCol("ab10")
	require.NoError(t, err)
	assert.Equal(t, 9, row)
	assert.Equal(t, 27, col)
}

func TestA1ToRowColInvalid(t *testing.T) {
	for _, label := range []string{"", "A", "123", "A0", "A1B", "$A$1", "A 1", "A-1"} {
		_, _, err := A1ToRowCol(label)
		require.Error(t, err, "label %q", label)
		var sheetErr *SheetError
		require.ErrorAs(t, err, &sheetErr)
		assert.Equal(t, ErrorCodeRef, sheetErr.Code, "label %q", label)
	}
}

func TestExpandA1Range(t *testing.T) {
	labels, err := ExpandA1Range("A1:B2")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B1", "A2", "B2"}, labels)
}

func TestExpandA1RangeCornerOrder(t *testing.T) {
	// corners normalize on both axes, so any corner pair spans the
	// same rectangle
	for _, ref := range []string{"A1:B2", "B2:A1", "A2:B1", "B1:A2"} {
		labels, err := ExpandA1Range(ref)
		require.NoError(t, err, "ref %s", ref)
		assert.Equal(t, []string{"A1", "B1", "A2", "B2"}, labels, "ref %s", ref)
	}
}

func TestExpandA1RangeSize(t *testing.T) {
	labels, err := ExpandA1Range("C3:A1")
	require.NoError(t, err)
	assert.Len(t, labels, 9)

	labels, err = ExpandA1Range("D4:D4")
	require.NoError(t, err)
	assert.Equal(t, []string{"D4"}, labels)
}

func TestExpandA1RangeInvalid(t *testing.T) {
	for _, ref := range []string{"A1", "A1:B2:C3", "A0:B2", "1A:B2", "A1:", ":B2", ""} {
		_, err := ExpandA1Range(ref)
		require.Error(t, err, "ref %q", ref)
		var sheetErr *SheetError
		require.ErrorAs(t, err, &sheetErr)
		assert.Equal(t, ErrorCodeRef, sheetErr.Code, "ref %q", ref)
	}
}

func ExampleExpandA1Range() {
	labels, _ := ExpandA1Range("A1:C1")
	fmt.Println(labels)
	// Output: [A1 B1 C1]
}
