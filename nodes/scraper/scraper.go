package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// Rule extracts one field of a record.
type Rule struct {
	Selector  string
	Attribute string
	Key       string
}

// Scraper parses the primary input as HTML and extracts records. Invalid
// selectors match nothing.
// Config:
// - container_selector: one record per match; empty means one record for the whole document
// - rules: [{selector, attribute (default "text"), key}]
type Scraper struct{ deps plugin.Deps }

func (n *Scraper) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Scraper) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	cfg := in.Config()
	html := ""
	if v := in.PrimaryInput(); v != nil {
		html = plugin.Text(v)
	}
	items := []any{}
	if strings.TrimSpace(html) == "" {
		return in.Success(map[string]any{"items": items, "data": items})
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("node", in.Node.ID).Msg("html parse failed")
		return in.Success(map[string]any{"items": items, "data": items})
	}
	rules := parseRules(cfg.Slice("rules"))

	if container := cfg.String("container_selector", ""); container != "" {
		doc.Find(container).Each(func(_ int, s *goquery.Selection) {
			items = append(items, extract(s, rules))
		})
	} else {
		items = append(items, extract(doc.Selection, rules))
	}
	return in.Success(map[string]any{"items": items, "data": items})
}

func parseRules(raw []any) []Rule {
	rules := make([]Rule, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		c := plugin.Config(m)
		rules = append(rules, Rule{
			Selector:  c.String("selector", ""),
			Attribute: c.String("attribute", "text"),
			Key:       c.String("key", ""),
		})
	}
	return rules
}

func extract(root *goquery.Selection, rules []Rule) map[string]any {
	rec := map[string]any{}
	for _, r := range rules {
		if r.Key == "" {
			continue
		}
		target := root
		if r.Selector != "" {
			target = root.Find(r.Selector).First()
		}
		if target.Length() == 0 {
			rec[r.Key] = nil
			continue
		}
		if r.Attribute == "text" {
			rec[r.Key] = strings.TrimSpace(target.Text())
			continue
		}
		if v, ok := target.Attr(r.Attribute); ok {
			rec[r.Key] = v
		} else {
			rec[r.Key] = nil
		}
	}
	return rec
}
