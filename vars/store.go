// Package vars holds the per-run variable store and the {{name}} substitution
// used by node handlers.
package vars

import (
	"strings"

	"github.com/bytedance/sonic"

	"github.com/Tsinling0525/flowrun/model"
)

// Store is a run-scoped name to value mapping. It is not safe for concurrent
// use; a run owns exactly one Store.
type Store struct {
	values map[string]any
}

// New returns a store seeded with a copy of initial.
func New(initial model.Variables) *Store {
	s := &Store{values: make(map[string]any, len(initial))}
	for k, v := range initial {
		s.values[k] = v
	}
	return s
}

func (s *Store) Get(name string) any { return s.values[name] }

func (s *Store) Lookup(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *Store) Set(name string, value any) { s.values[name] = value }

// Snapshot copies the current contents.
func (s *Store) Snapshot() model.Variables {
	out := make(model.Variables, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Substitute replaces every {{name}} with the stored value in one left to right
// pass. Inserted text is never rescanned and unknown names stay as written.
func (s *Store) Substitute(text string) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		start := strings.Index(text[i:], "{{")
		if start < 0 {
			break
		}
		start += i
		end := strings.Index(text[start+2:], "}}")
		if end < 0 {
			break
		}
		end += start + 2
		name := text[start+2 : end]
		if v, ok := s.values[name]; ok {
			b.WriteString(text[i:start])
			b.WriteString(Render(v))
			i = end + 2
			continue
		}
		b.WriteString(text[i : start+1])
		i = start + 1
	}
	b.WriteString(text[i:])
	return b.String()
}

// Render turns a value into substitution text: strings verbatim, everything
// else as compact JSON.
func Render(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	out, err := sonic.ConfigStd.MarshalToString(v)
	if err != nil {
		return ""
	}
	return out
}
