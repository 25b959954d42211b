package loop

import (
	"context"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Loop walks an upstream array one element per visit. The dispatch loop
// re-queues the node while it answers on the "body" handle.
type Loop struct{ deps plugin.Deps }

func (n *Loop) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Loop) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	index := 0
	if prev, ok := in.Previous(); ok {
		if m, ok := prev.Output.(map[string]any); ok {
			if f, ok := plugin.ToFloat(m["index"]); ok && f >= 0 {
				index = int(f)
			}
			index++
		}
	}

	items := n.source(in)
	if index < len(items) {
		item := items[index]
		return in.Branch(map[string]any{"index": index, "item": item, "data": item}, model.HandleBody)
	}
	return in.Branch(map[string]any{"status": "done", "index": index}, model.HandleDone)
}

// source returns the first non-empty array found among predecessors, looking
// at each one's data entry and then its whole output.
func (n *Loop) source(in *plugin.Input) []any {
	for _, p := range in.Parents {
		r, ok := in.Result(p)
		if !ok {
			continue
		}
		if a, ok := plugin.Payload(r.Output).([]any); ok && len(a) > 0 {
			return a
		}
		if a, ok := r.Output.([]any); ok && len(a) > 0 {
			return a
		}
	}
	return nil
}
