package mapper

import (
	"context"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Mapper translates the primary input through a lookup table.
// Config: mapping (object), fallback (any, default "Unknown").
type Mapper struct{ deps plugin.Deps }

func (n *Mapper) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Mapper) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	cfg := in.Config()
	var fallback any = "Unknown"
	if cfg.Has("fallback") {
		fallback = cfg.Raw("fallback")
	}

	out := fallback
	if v, ok := cfg.Map("mapping")[key(in.PrimaryInput())]; ok {
		out = v
	}
	return in.Success(map[string]any{"data": out})
}

// key renders numbers as JSON text and strings verbatim; any other kind maps
// to the empty key.
func key(v any) string {
	switch v.(type) {
	case string, float64, int, int64:
		return plugin.Text(v)
	}
	return ""
}
