package variable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
	"github.com/Tsinling0525/flowrun/vars"
)

func newInput(data map[string]any, upstream any, store *vars.Store) *plugin.Input {
	results := model.Results{}
	if upstream != nil {
		results["up"] = model.ExecutionResult{NodeID: "up", Output: map[string]any{"data": upstream}}
	}
	return plugin.NewInput(model.Node{ID: "n", Data: data}, []model.ID{"up"}, results, store)
}

func TestCapture(t *testing.T) {
	upstream := map[string]any{"user": map[string]any{"id": 7.0, "roles": []any{"admin"}}}

	t.Run("path into store", func(t *testing.T) {
		store := vars.New(nil)
		res := (&Capture{}).Process(context.Background(), newInput(map[string]any{"path": "user.id", "variable": "uid"}, upstream, store))
		assert.Equal(t, map[string]any{"variable": "uid", "data": 7.0}, res.Output)
		assert.Equal(t, 7.0, store.Get("uid"))
	})

	t.Run("array index", func(t *testing.T) {
		store := vars.New(nil)
		res := (&Capture{}).Process(context.Background(), newInput(map[string]any{"path": "user.roles.0"}, upstream, store))
		assert.Equal(t, map[string]any{"variable": "", "data": "admin"}, res.Output)
		assert.Empty(t, store.Snapshot())
	})

	t.Run("missing segment stores null", func(t *testing.T) {
		store := vars.New(model.Variables{"uid": "old"})
		res := (&Capture{}).Process(context.Background(), newInput(map[string]any{"path": "user.nope", "variable": "uid"}, upstream, store))
		assert.Nil(t, res.Output.(map[string]any)["data"])
		v, ok := store.Lookup("uid")
		require.True(t, ok)
		assert.Nil(t, v)
	})
}

func TestCounter(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		amount   any
		initial  any
		upstream any
		want     any
	}{
		{"increment default op", "", "2", 1.0, nil, 3.0},
		{"increment from absent", "increment", "5", nil, nil, 5.0},
		{"increment substituted amount", "increment", "{{step}}", 10.0, nil, 14.0},
		{"increment bad amount", "increment", "lots", 10.0, nil, 10.0},
		{"increment numeric text", "increment", 1.0, "4", nil, 5.0},
		{"decrement", "decrement", "3", 10.0, nil, 7.0},
		{"set", "set", "9", "anything", nil, 9.0},
		{"assign", "assign", nil, 1.0, map[string]any{"a": "b"}, map[string]any{"a": "b"}},
		{"append to scalar", "append", nil, "first", "second", []any{"first", "second"}},
		{"append null input", "append", nil, []any{"x"}, nil, []any{"x"}},
		{"prepend", "prepend", nil, []any{"b"}, "a", []any{"a", "b"}},
		{"pop", "pop", nil, []any{"a", "b"}, nil, []any{"a"}},
		{"pop empty", "pop", nil, nil, nil, []any{}},
		{"shift", "shift", nil, []any{"a", "b"}, nil, []any{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := model.Variables{"step": 4.0}
			if tt.initial != nil {
				seed["v"] = tt.initial
			}
			store := vars.New(seed)
			data := map[string]any{"variable": "v"}
			if tt.op != "" {
				data["operation"] = tt.op
			}
			if tt.amount != nil {
				data["amount"] = tt.amount
			}

			res := (&Counter{}).Process(context.Background(), newInput(data, tt.upstream, store))

			assert.Equal(t, map[string]any{"variable": "v", "status": "updated"}, res.Output)
			assert.Equal(t, tt.want, store.Get("v"))
		})
	}
}

func TestCounterDoesNotMutateEarlierValue(t *testing.T) {
	list := make([]any, 1, 4)
	list[0] = "a"
	store := vars.New(model.Variables{"v": list})
	snap := store.Snapshot()

	(&Counter{}).Process(context.Background(), newInput(map[string]any{"variable": "v", "operation": "append"}, "b", store))

	assert.Equal(t, []any{"a"}, snap["v"])
	assert.Equal(t, []any{"a", "b"}, store.Get("v"))
}

func TestCounterWithoutVariable(t *testing.T) {
	store := vars.New(nil)
	res := (&Counter{}).Process(context.Background(), newInput(map[string]any{"amount": "1"}, nil, store))
	assert.Equal(t, map[string]any{"variable": "", "status": "updated"}, res.Output)
	assert.Empty(t, store.Snapshot())
}
