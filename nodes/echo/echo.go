package echo

import (
	"context"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Echo forwards its primary input unchanged. It backs the display-only node
// types (start, output, comment and friends).
type Echo struct{ deps plugin.Deps }

func (e *Echo) Init(ctx context.Context, deps plugin.Deps) error { e.deps = deps; return nil }

func (e *Echo) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	return in.Success(map[string]any{"status": "ok", "data": in.PrimaryInput()})
}
