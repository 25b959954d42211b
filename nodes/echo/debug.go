package echo

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Debug echoes like Echo and additionally reports the output of every
// predecessor that has run, keyed by predecessor id.
type Debug struct{ deps plugin.Deps }

func (d *Debug) Init(ctx context.Context, deps plugin.Deps) error { d.deps = deps; return nil }

func (d *Debug) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	log := zerolog.Ctx(ctx)
	connected := map[string]any{}
	for _, p := range in.Parents {
		r, ok := in.Result(p)
		if !ok {
			continue
		}
		connected[p] = r.Output
		log.Debug().Str("node", in.Node.ID).Str("from", p).Interface("output", r.Output).Msg("debug")
	}
	return in.Success(map[string]any{
		"status":            "ok",
		"connected_results": connected,
		"data":              in.PrimaryInput(),
	})
}
