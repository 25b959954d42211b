package logic

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Assert checks the primary input and fails the node when the check does not hold.
// Config:
// - condition: equals|notEquals|contains|notContains|greaterThan|lessThan|regex (default equals)
// - value: expected value
// - message: prefix for the failure message (default "Assertion failed")
type Assert struct{ deps plugin.Deps }

func (n *Assert) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Assert) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	cfg := in.Config()
	op := cfg.String("condition", "equals")
	expected := ""
	if v := cfg.Raw("value"); v != nil {
		expected = plugin.Text(v)
	}
	input := in.PrimaryInput()
	actual := plugin.Text(input)

	if check(op, actual, expected) {
		return in.Success(map[string]any{"status": "passed", "data": input})
	}
	msg := fmt.Sprintf("%s: Expected %s '%s', got '%s'", cfg.String("message", "Assertion failed"), op, expected, actual)
	return in.Fail(map[string]any{"status": "failed", "actual": input, "expected": expected}, msg)
}

func check(op, actual, expected string) bool {
	switch op {
	case "equals":
		return equal(actual, expected)
	case "notEquals":
		return !equal(actual, expected)
	case "contains":
		return contains(actual, expected)
	case "notContains":
		return !contains(actual, expected)
	case "greaterThan":
		x, y, ok := numbers(actual, expected)
		return ok && x > y
	case "lessThan":
		x, y, ok := numbers(actual, expected)
		return ok && x < y
	case "regex":
		re, err := regexp.Compile(expected)
		return err == nil && re.MatchString(actual)
	}
	return false
}
