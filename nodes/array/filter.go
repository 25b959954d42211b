// Package array holds the list-shaped transforms.
package array

import (
	"context"
	"regexp"
	"strings"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Filter keeps the items whose property passes the condition.
// Config:
// - property: dotted path inside each item; empty tests the item itself
// - condition: equals|notEquals|contains|regex|extension|exists|notExists (default equals)
// - value: comparison value; for extension a comma separated list of suffixes
type Filter struct{ deps plugin.Deps }

func (n *Filter) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Filter) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	cfg := in.Config()
	prop := cfg.String("property", "")
	value := ""
	if v := cfg.Raw("value"); v != nil {
		value = plugin.Text(v)
	}
	match := matcher(cfg.String("condition", "equals"), value)

	items := []any{}
	for _, it := range plugin.ToArray(in.PrimaryInput()) {
		if match(plugin.Path(it, prop)) {
			items = append(items, it)
		}
	}
	return in.Success(listOutput(items))
}

func matcher(cond, value string) func(any) bool {
	switch cond {
	case "exists":
		return func(v any) bool { return v != nil }
	case "notExists":
		return func(v any) bool { return v == nil }
	case "equals":
		return func(v any) bool { return v != nil && plugin.Text(v) == value }
	case "notEquals":
		return func(v any) bool { return v == nil || plugin.Text(v) != value }
	case "contains":
		return func(v any) bool { return v != nil && strings.Contains(plugin.Text(v), value) }
	case "regex":
		re, err := regexp.Compile(value)
		if err != nil {
			return func(any) bool { return false }
		}
		return func(v any) bool { return v != nil && re.MatchString(plugin.Text(v)) }
	case "extension":
		var exts []string
		for _, e := range strings.Split(value, ",") {
			if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
				exts = append(exts, e)
			}
		}
		return func(v any) bool {
			if v == nil {
				return false
			}
			s := strings.ToLower(plugin.Text(v))
			for _, e := range exts {
				if strings.HasSuffix(s, e) {
					return true
				}
			}
			return false
		}
	}
	return func(any) bool { return false }
}

func listOutput(items []any) map[string]any {
	return map[string]any{"items": items, "total": len(items), "data": items}
}
