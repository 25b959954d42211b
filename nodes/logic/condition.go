package logic

import (
	"context"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Condition compares the primary input with targetValue and selects the
// "true" or "false" branch.
// Config: condition (equal|notEqual|greaterThan|lessThan|contains, default equal), targetValue.
type Condition struct{ deps plugin.Deps }

func (n *Condition) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Condition) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	cfg := in.Config()
	input := in.PrimaryInput()
	actual := plugin.Text(input)
	target := ""
	if v := cfg.Raw("targetValue"); v != nil {
		target = plugin.Text(v)
	}

	var ok bool
	switch cfg.String("condition", "equal") {
	case "equal":
		ok = equal(actual, target)
	case "notEqual":
		ok = !equal(actual, target)
	case "greaterThan":
		ok = greater(actual, target)
	case "lessThan":
		ok = less(actual, target)
	case "contains":
		ok = contains(actual, target)
	}

	handle := model.HandleFalse
	if ok {
		handle = model.HandleTrue
	}
	return in.Branch(map[string]any{"result": ok, "input": input}, handle)
}
