package sheetcalc

import "strings"

// Evaluation is one evaluation session over a sheet. It owns the memo
// table, the per-cell diagnostics, and the active-resolution set used for
// cycle detection; all three are scoped to the session and discarded with
// it. The sheet itself is caller-owned and never mutated, so evaluating
// different sheets concurrently, or the same sheet from several sessions,
// needs no locking.
type Evaluation struct {
	sheet     *Sheet
	memo      map[string]Primitive
	errs      map[string]string
	resolving map[string]struct{}
}

// EvaluateSheet starts a fresh evaluation session over the given sheet.
// Nothing is computed up front: cells resolve on demand through Get.
func EvaluateSheet(sheet *Sheet) *Evaluation {
	return &Evaluation{
		sheet:     sheet,
		memo:      make(map[string]Primitive),
		errs:      make(map[string]string),
		resolving: make(map[string]struct{}),
	}
}

// Get resolves one cell to its value. Formula cells are tokenized, parsed
// and evaluated, recursing through Get for every referenced cell. A cell
// already being resolved on the current path is a cycle: it is recorded
// under the cell's diagnostics and the referencing frame receives a plain
// 0 so evaluation of the rest of the sheet continues. Any parse or
// evaluate error is likewise caught at the cell's boundary, recorded, and
// replaced by a memoized 0. Absent cells and non-formula literals resolve
// immediately (nil resolves to 0). Results are memoized for the life of
// the session, so repeated Gets never re-derive.
func (ev *Evaluation) Get(label string) Primitive {
	key := strings.ToUpper(label)

	if val, ok := ev.memo[key]; ok {
		return val
	}

	if _, active := ev.resolving[key]; active {
		ev.errs[key] = CycleMarker
		return float64(0)
	}

	raw, ok := ev.sheet.Cells[key]
	if !ok || raw == nil {
		// unknown or empty cells are zero, never errors
		ev.memo[key] = float64(0)
		return float64(0)
	}

	body, isFormula := formulaBody(raw)
	if !isFormula {
		val := literalValue(raw)
		ev.memo[key] = val
		return val
	}

	ev.resolving[key] = struct{}{}
	defer delete(ev.resolving, key)

	val, err := ev.evalFormula(body)
	if err != nil {
		ev.errs[key] = err.Error()
		ev.memo[key] = float64(0)
		return float64(0)
	}

	ev.memo[key] = val
	return val
}

// Errors returns the per-cell diagnostics recorded so far in this session
func (ev *Evaluation) Errors() map[string]string {
	return ev.errs
}

// evalFormula runs one formula body through the tokenize/parse/evaluate
// pipeline against this session
func (ev *Evaluation) evalFormula(body string) (Primitive, error) {
	node, err := ParseFormula(body)
	if err != nil {
		return nil, err
	}
	return node.Eval(ev)
}

// formulaBody reports whether a raw cell holds a formula and, if so,
// returns the expression body after the leading '='. A formula-looking
// string without the prefix is just a literal.
func formulaBody(raw Primitive) (string, bool) {
	s, ok := raw.(string)
	if !ok || !strings.HasPrefix(s, "=") {
		return "", false
	}
	return s[1:], true
}

// literalValue normalizes a literal cell to its resolved form: numeric
// types widen to float64, strings and booleans pass through
func literalValue(raw Primitive) Primitive {
	switch v := raw.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}
