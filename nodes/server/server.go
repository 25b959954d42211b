// Package server holds the handlers bridging an inbound HTTP request into a
// run and the run's answer back out.
package server

import (
	"context"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Trigger republishes the request seeded into the variable store.
type Trigger struct{ deps plugin.Deps }

func (n *Trigger) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Trigger) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	body := in.Vars.Get(model.VarReqBody)
	out := map[string]any{
		"method": in.Vars.Get(model.VarReqMethod),
		"body":   body,
		"query":  in.Vars.Get(model.VarReqQuery),
		"data":   body,
	}
	if v, ok := in.Vars.Lookup(model.VarReqPath); ok {
		out["path"] = v
	}
	if v, ok := in.Vars.Lookup(model.VarReqHeaders); ok {
		out["headers"] = v
	}
	return in.Success(out)
}

// DefaultStatus is used when a response node has no usable status.
const DefaultStatus = 200

// Response describes the reply for the inbound request.
// Config: status (number, default 200), body (string bodies are substituted).
type Response struct{ deps plugin.Deps }

func (n *Response) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Response) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	cfg := in.Config()
	body := cfg.Raw("body")
	if s, ok := body.(string); ok {
		body = in.Vars.Substitute(s)
	}
	return model.ExecutionResult{
		NodeID: in.Node.ID,
		Status: model.StatusCompleted,
		Output: map[string]any{
			"server_response": map[string]any{
				"status":      int(cfg.Float("status", DefaultStatus)),
				"body":        body,
				"source_data": in.PrimaryInput(),
			},
		},
	}
}
