package input

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Input emits a literal. Config:
// - value: string, substituted before coercion
// - type: string|number|json (default string); values that fail to parse stay text
type Input struct{ deps plugin.Deps }

func (n *Input) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Input) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	cfg := in.Config()
	var raw string
	if v := cfg.Raw("value"); v != nil {
		raw = plugin.Text(v)
	}
	raw = in.Vars.Substitute(raw)

	var data any = raw
	switch cfg.String("type", "string") {
	case "number":
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			data = f
		}
	case "json":
		if v, err := plugin.ParseJSON(raw); err == nil {
			data = v
		}
	}
	return in.Success(map[string]any{"data": data})
}
