package sheetcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetCellKey(t *testing.T) {
	assert.Equal(t, "A1", SheetCellKey(0, 0))
	assert.Equal(t, "A3", SheetCellKey(2, 0))
	assert.Equal(t, "AB1", SheetCellKey(0, 27))
	assert.Equal(t, "C10", SheetCellKey(9, 2))
}

func TestClampSheetKey(t *testing.T) {
	sheet := newTestSheet(5, 3, nil)

	key, err := ClampSheetKey(sheet, "b2")
	require.NoError(t, err)
	assert.Equal(t, "B2", key)

	key, err = ClampSheetKey(sheet, "C5")
	require.NoError(t, err)
	assert.Equal(t, "C5", key)
}

func TestClampSheetKeyOutOfBounds(t *testing.T) {
	sheet := newTestSheet(5, 3, nil)

	for _, label := range []string{"D1", "A6", "ZZ100"} {
		_, err := ClampSheetKey(sheet, label)
		require.Error(t, err, "label %s", label)
		var sheetErr *SheetError
		require.ErrorAs(t, err, &sheetErr)
		assert.Equal(t, ErrorCodeBounds, sheetErr.Code, "label %s", label)
	}
}

func TestClampSheetKeyMalformed(t *testing.T) {
	sheet := newTestSheet(5, 3, nil)

	_, err := ClampSheetKey(sheet, "not-a-label")
	require.Error(t, err)
	var sheetErr *SheetError
	require.ErrorAs(t, err, &sheetErr)
	assert.Equal(t, ErrorCodeRef, sheetErr.Code)
}

func TestMatrix(t *testing.T) {
	ev := EvaluateSheet(newTestSheet(2, 2, map[string]Primitive{
		"A1": float64(1),
		"B1": "=A1+1",
		"A2": "=1+", // records a syntax diagnostic
	}))

	matrix := ev.Matrix()
	require.Len(t, matrix, 2)
	require.Len(t, matrix[0], 2)

	assert.Equal(t, float64(1), matrix[0][0])
	assert.Equal(t, float64(2), matrix[0][1])
	assert.Equal(t, ErrorMarker, matrix[1][0])
	assert.Nil(t, matrix[1][1])
}

func TestMatrixCycle(t *testing.T) {
	ev := EvaluateSheet(newTestSheet(1, 2, map[string]Primitive{
		"A1": "=B1",
		"B1": "=A1",
	}))

	matrix := ev.Matrix()
	assert.Equal(t, ErrorMarker, matrix[0][0])
	assert.Equal(t, float64(0), matrix[0][1])
}

func TestMatrixLiteralPassthrough(t *testing.T) {
	// non-formula cells project their raw literal, not a coerced value
	ev := EvaluateSheet(newTestSheet(1, 3, map[string]Primitive{
		"A1": "hello",
		"B1": true,
		"C1": float64(1.5),
	}))

	matrix := ev.Matrix()
	assert.Equal(t, "hello", matrix[0][0])
	assert.Equal(t, true, matrix[0][1])
	assert.Equal(t, 1.5, matrix[0][2])
}

func TestParseSheetJSON(t *testing.T) {
	doc := []byte(`{
		"name": "budget",
		"rows": 3,
		"cols": 2,
		"cells": {
			"a1": 2,
			"A2": 3,
			"b1": "=SUM(A1:A2)"
		}
	}`)

	sheet, err := ParseSheetJSON(doc)
	require.NoError(t, err)
	assert.Equal(t, "budget", sheet.Name)
	assert.Equal(t, 3, sheet.Rows)
	assert.Equal(t, 2, sheet.Cols)
	// labels normalize to uppercase keys
	assert.Equal(t, float64(2), sheet.Cells["A1"])
	assert.Equal(t, "=SUM(A1:A2)", sheet.Cells["B1"])

	ev := EvaluateSheet(sheet)
	assert.Equal(t, float64(5), ev.Get("B1"))
}

func TestParseSheetJSONInvalid(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"rows": 1,`,
		"zero rows":          `{"rows": 0, "cols": 1}`,
		"negative cols":      `{"rows": 1, "cols": -2}`,
		"malformed label":    `{"rows": 1, "cols": 1, "cells": {"??": 1}}`,
		"out of bounds cell": `{"rows": 1, "cols": 1, "cells": {"B1": 1}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSheetJSON([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "TRUE", FormatValue(true))
	assert.Equal(t, "FALSE", FormatValue(false))
	assert.Equal(t, "5", FormatValue(float64(5)))
	assert.Equal(t, "3.14", FormatValue(3.14))
	assert.Equal(t, "hi", FormatValue("hi"))
}
