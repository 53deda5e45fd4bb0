package sheetcalc

import "math"

// callFunction dispatches a built-in function by name over its evaluated
// arguments. Arguments are flattened into one flat list of numbers first:
// a range argument contributes every covered cell's value in row-major
// order. Unknown function names are silently inert and return 0.
//
// IF is absent here on purpose: it short-circuits, so it is handled at the
// expression tree level before arguments are evaluated.
func callFunction(name string, args []Primitive) Primitive {
	nums := flattenNumbers(args)

	switch name {
	case "SUM":
		return sumOf(nums)
	case "AVERAGE":
		return averageOf(nums)
	case "MIN":
		return minOf(nums)
	case "MAX":
		return maxOf(nums)
	case "ROUND":
		value, digits := 0.0, 0.0
		if len(nums) > 0 {
			value = nums[0]
		}
		if len(nums) > 1 {
			digits = nums[1]
		}
		return roundHalfUp(value, digits)
	default:
		return float64(0)
	}
}

// flattenNumbers flattens evaluated arguments into a single list of
// numerically coerced values
func flattenNumbers(args []Primitive) []float64 {
	nums := make([]float64, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case []float64:
			nums = append(nums, v...)
		case []Primitive:
			nums = append(nums, flattenNumbers(v)...)
		default:
			nums = append(nums, toNumber(v))
		}
	}
	return nums
}

func sumOf(nums []float64) float64 {
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum
}

// averageOf returns the mean, or 0 for an empty list (not NaN, not an error)
func averageOf(nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	return sumOf(nums) / float64(len(nums))
}

func minOf(nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	m := nums[0]
	for _, n := range nums[1:] {
		m = math.Min(m, n)
	}
	return m
}

func maxOf(nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	m := nums[0]
	for _, n := range nums[1:] {
		m = math.Max(m, n)
	}
	return m
}

// roundHalfUp rounds value to clamp(floor(digits), 0, 10) decimal digits
// using round-half-up on the scaled integer
func roundHalfUp(value, digits float64) float64 {
	d := int(math.Floor(digits))
	if d < 0 {
		d = 0
	}
	if d > 10 {
		d = 10
	}
	scale := math.Pow(10, float64(d))
	return math.Floor(value*scale+0.5) / scale
}
