package sheetcalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Primitive represents basic cell value types.
// types:
//   - float64: numeric values (integers are converted to float64)
//   - string: text values, including formula strings ("=...")
//   - bool: boolean values
//   - nil: empty/null cells
type Primitive any

// ErrorCode classifies the failures a formula or reference can produce
type ErrorCode uint8

const (
	ErrorCodeSyntax ErrorCode = 1 // formula body cannot be tokenized or parsed
	ErrorCodeRef    ErrorCode = 2 // malformed A1 label or range
	ErrorCodeBounds ErrorCode = 3 // label outside sheet dimensions (write path)
)

// errorNames maps error codes to their display markers
var errorNames = map[ErrorCode]string{
	ErrorCodeSyntax: "#SYNTAX!",
	ErrorCodeRef:    "#REF!",
	ErrorCodeBounds: "#BOUNDS!",
}

const (
	// CycleMarker is recorded against a cell whose resolution re-entered
	// itself. It is a diagnostic, never a thrown error: the referencing
	// frame receives 0 and evaluation of the rest of the sheet continues.
	CycleMarker = "#CYCLE!"

	// ErrorMarker is what the dense matrix projection renders for any cell
	// with a recorded diagnostic, in place of its memoized 0.
	ErrorMarker = "#ERROR!"
)

// SheetError preserves the error code alongside a human-readable message
type SheetError struct {
	Code    ErrorCode
	Message string
}

func (e *SheetError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return errorNames[e.Code]
}

func NewSheetError(code ErrorCode, message string) *SheetError {
	if message == "" {
		message = errorNames[code]
	}
	return &SheetError{
		Code:    code,
		Message: message,
	}
}

// toNumber coerces a primitive to a float64. Non-numeric text, nil and
// unparseable values all coerce to 0 rather than erroring, matching the
// empty-cell-is-zero convention.
func toNumber(value Primitive) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		num, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
			return 0
		}
		return num
	case nil:
		return 0
	default:
		return 0
	}
}

// toBool coerces a primitive to a boolean. Booleans pass through,
// everything else is true when its numeric coercion is nonzero.
func toBool(value Primitive) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	return toNumber(value) != 0
}

// FormatValue renders a primitive the way cell output surfaces expect it:
// empty for nil, TRUE/FALSE for booleans, shortest round-trip form
// for numbers.
func FormatValue(value Primitive) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
