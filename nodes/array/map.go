package array

import (
	"context"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Map extracts a dotted path from every item and drops the misses.
// Config: path.
type Map struct{ deps plugin.Deps }

func (n *Map) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Map) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	path := in.Config().String("path", "")
	items := []any{}
	for _, it := range plugin.ToArray(in.PrimaryInput()) {
		if v := plugin.Path(it, path); v != nil {
			items = append(items, v)
		}
	}
	return in.Success(listOutput(items))
}
