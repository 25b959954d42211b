// Package terminal holds the fixed-outcome handlers.
package terminal

import (
	"context"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

const FailMessage = "Explicit Failure Node Triggered"

type Success struct{}

func (Success) Init(context.Context, plugin.Deps) error { return nil }

func (Success) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	return in.Success(map[string]any{"status": "completed"})
}

type Fail struct{}

func (Fail) Init(context.Context, plugin.Deps) error { return nil }

func (Fail) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	return in.Fail(map[string]any{"status": "failed"}, FailMessage)
}

// Unknown handles node types this build does not recognize.
type Unknown struct{}

func (Unknown) Init(context.Context, plugin.Deps) error { return nil }

func (Unknown) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	return model.ExecutionResult{
		NodeID: in.Node.ID,
		Status: model.StatusSkipped,
		Output: map[string]any{"message": "Unknown node type"},
	}
}
