package plugin

import (
	"math"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/Tsinling0525/flowrun/vars"
)

// Path walks a dotted path through objects and arrays. Numeric segments index
// arrays. Any missing step yields nil.
func Path(v any, path string) any {
	if path == "" {
		return v
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch c := cur.(type) {
		case map[string]any:
			next, ok := c[seg]
			if !ok {
				return nil
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(c) {
				return nil
			}
			cur = c[i]
		default:
			return nil
		}
	}
	return cur
}

// ToArray coerces a value into a list: arrays as is, null to empty and any
// other value to a single element list.
func ToArray(v any) []any {
	switch a := v.(type) {
	case nil:
		return []any{}
	case []any:
		return a
	}
	return []any{v}
}

// Text renders strings verbatim and anything else as JSON.
func Text(v any) string { return vars.Render(v) }

// ToFloat reads a number out of a JSON number or numeric text.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ParseJSON decodes text into a generic JSON value.
func ParseJSON(text string) (any, error) {
	var out any
	if err := sonic.ConfigStd.UnmarshalFromString(text, &out); err != nil {
		return nil, err
	}
	return out, nil
}
