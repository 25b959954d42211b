package logic

import (
	"math"
	"strings"

	"github.com/Tsinling0525/flowrun/plugin"
)

const epsilon = 1e-9

// numbers parses both sides as numbers; ok is false unless both parse.
func numbers(a, b string) (x, y float64, ok bool) {
	x, okA := plugin.ToFloat(a)
	y, okB := plugin.ToFloat(b)
	return x, y, okA && okB
}

func equal(a, b string) bool {
	if x, y, ok := numbers(a, b); ok {
		return math.Abs(x-y) < epsilon
	}
	return a == b
}

func greater(a, b string) bool {
	if x, y, ok := numbers(a, b); ok {
		return x > y
	}
	return a > b
}

func less(a, b string) bool {
	if x, y, ok := numbers(a, b); ok {
		return x < y
	}
	return a < b
}

func contains(a, b string) bool { return strings.Contains(a, b) }
