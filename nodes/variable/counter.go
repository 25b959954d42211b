package variable

import (
	"context"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Counter mutates one variable.
// Config:
// - variable: name of the variable to change
// - operation: increment|decrement|set|assign|append|prepend|pop|shift (default increment)
// - amount: numeric text, substituted first; unparsable amounts count as 0
type Counter struct{ deps plugin.Deps }

func (n *Counter) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Counter) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	cfg := in.Config()
	name := cfg.String("variable", "")
	op := cfg.String("operation", "increment")

	if name != "" {
		current := in.Vars.Get(name)
		switch op {
		case "increment":
			in.Vars.Set(name, number(current)+amount(in))
		case "decrement":
			in.Vars.Set(name, number(current)-amount(in))
		case "set":
			in.Vars.Set(name, amount(in))
		case "assign":
			in.Vars.Set(name, in.PrimaryInput())
		case "append":
			list := copyList(current)
			if v := in.PrimaryInput(); v != nil {
				list = append(list, v)
			}
			in.Vars.Set(name, list)
		case "prepend":
			list := copyList(current)
			if v := in.PrimaryInput(); v != nil {
				list = append([]any{v}, list...)
			}
			in.Vars.Set(name, list)
		case "pop":
			list := copyList(current)
			if len(list) > 0 {
				list = list[:len(list)-1]
			}
			in.Vars.Set(name, list)
		case "shift":
			list := copyList(current)
			if len(list) > 0 {
				list = list[1:]
			}
			in.Vars.Set(name, list)
		}
	}
	return in.Success(map[string]any{"variable": name, "status": "updated"})
}

func amount(in *plugin.Input) float64 {
	raw := in.Config().Raw("amount")
	if raw == nil {
		return 0
	}
	f, ok := plugin.ToFloat(in.Vars.Substitute(plugin.Text(raw)))
	if !ok {
		return 0
	}
	return f
}

func number(v any) float64 {
	f, _ := plugin.ToFloat(v)
	return f
}

// copyList coerces v to a fresh list so earlier snapshots of the variable are
// never mutated.
func copyList(v any) []any {
	src := plugin.ToArray(v)
	out := make([]any, len(src), len(src)+1)
	copy(out, src)
	return out
}
