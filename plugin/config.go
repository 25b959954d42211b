package plugin

import "strconv"

// Config is a node's raw data payload. Getters are lenient: a missing key or
// a value of the wrong kind yields the default.
type Config map[string]any

func (c Config) Has(key string) bool {
	_, ok := c[key]
	return ok
}

func (c Config) String(key, def string) string {
	if s, ok := c[key].(string); ok && s != "" {
		return s
	}
	return def
}

// Raw returns the value without interpretation.
func (c Config) Raw(key string) any { return c[key] }

func (c Config) Float(key string, def float64) float64 {
	switch v := c[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func (c Config) Map(key string) map[string]any {
	m, _ := c[key].(map[string]any)
	return m
}

func (c Config) Slice(key string) []any {
	s, _ := c[key].([]any)
	return s
}
