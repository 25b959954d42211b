package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/nodes"
	"github.com/Tsinling0525/flowrun/plugin"
	"github.com/Tsinling0525/flowrun/vars"
)

// MaxVisits bounds how often a single node may execute in one run. Visits
// past the bound are dropped without a result.
const MaxVisits = 10000

type Engine struct {
	Deps plugin.Deps
}

func New(deps plugin.Deps) *Engine { return &Engine{Deps: deps} }

// Run executes flow once, starting from a fresh variable store seeded with
// initial. It never fails: node problems are recorded as error results.
func (e *Engine) Run(ctx context.Context, execID string, flow model.Flow, initial model.Variables) (model.Results, model.Variables) {
	log := zerolog.Ctx(ctx).With().Str("exec", execID).Logger()
	ix := buildIndex(flow)
	store := vars.New(initial)
	results := model.Results{}
	visits := map[model.ID]int{}

	stack := newReadyStack(ix.roots(flow))
	log.Debug().Int("roots", stack.len()).Int("nodes", len(ix.nodes)).Msg("run started")

	for {
		id, ok := stack.pop()
		if !ok {
			break
		}
		visits[id]++
		if visits[id] > MaxVisits {
			if visits[id] == MaxVisits+1 {
				log.Warn().Str("node", id).Int("max", MaxVisits).Msg("visit limit reached, dropping node")
				e.emit(ctx, "node_revisit_capped", map[string]any{"exec": execID, "node": id})
			}
			continue
		}
		node, ok := ix.nodes[id]
		if !ok {
			continue
		}

		e.emit(ctx, "node_started", map[string]any{"exec": execID, "node": id, "type": string(node.Type)})
		res := e.execute(log.WithContext(ctx), node, ix.incoming[id], results, store)
		results[id] = res
		log.Debug().Str("node", id).Str("type", string(node.Type)).Str("status", string(res.Status)).
			Str("handle", res.ActiveHandle).Msg("node executed")
		e.emit(ctx, "node_completed", map[string]any{
			"exec": execID, "node": id, "status": string(res.Status), "handle": res.ActiveHandle,
		})

		if node.Type == model.TypeLoop && res.ActiveHandle == model.HandleBody {
			stack.push(id)
		}
		for _, l := range ix.outgoing[id] {
			if res.ActiveHandle == "" || l.edge.SourceHandle == res.ActiveHandle {
				stack.push(l.target)
			}
		}
	}

	e.emit(ctx, "execution_completed", map[string]any{"exec": execID, "nodes": len(results), "at": time.Now().UTC()})
	log.Debug().Int("results", len(results)).Bool("failed", results.Failed()).Msg("run finished")
	return results, store.Snapshot()
}

func (e *Engine) execute(ctx context.Context, node model.Node, parents []model.ID, results model.Results, store *vars.Store) model.ExecutionResult {
	handler := nodes.New(node.Type)
	if err := handler.Init(ctx, e.Deps); err != nil {
		return model.ExecutionResult{NodeID: node.ID, Status: model.StatusError, Error: err.Error()}
	}
	return handler.Process(ctx, plugin.NewInput(node, parents, results, store))
}

func (e *Engine) emit(ctx context.Context, event string, fields map[string]any) {
	if e.Deps.Bus == nil {
		return
	}
	if err := e.Deps.Bus.Emit(ctx, event, fields); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("event", event).Msg("event bus emit failed")
	}
}
