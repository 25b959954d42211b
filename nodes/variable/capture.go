// Package variable holds the handlers that write to the run's variable store.
package variable

import (
	"context"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Capture extracts a dotted path from the primary input and optionally
// stores it. Config: path, variable.
type Capture struct{ deps plugin.Deps }

func (n *Capture) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Capture) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	cfg := in.Config()
	name := cfg.String("variable", "")
	extracted := plugin.Path(in.PrimaryInput(), cfg.String("path", ""))
	if name != "" {
		in.Vars.Set(name, extracted)
	}
	return in.Success(map[string]any{"variable": name, "data": extracted})
}
