package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

type event struct {
	name   string
	fields map[string]any
}

type recordBus struct{ events []event }

func (b *recordBus) Emit(_ context.Context, name string, fields map[string]any) error {
	b.events = append(b.events, event{name: name, fields: fields})
	return nil
}

func (b *recordBus) completed(node string) []event {
	var out []event
	for _, e := range b.events {
		if e.name == "node_completed" && e.fields["node"] == node {
			out = append(out, e)
		}
	}
	return out
}

func (b *recordBus) started() []string {
	var out []string
	for _, e := range b.events {
		if e.name == "node_started" {
			out = append(out, e.fields["node"].(string))
		}
	}
	return out
}

func node(id string, t model.NodeType, data map[string]any) model.Node {
	return model.Node{ID: id, Type: t, Data: data}
}

func edge(src, dst, handle string) model.Edge {
	return model.Edge{ID: src + "-" + dst, Source: src, Target: dst, SourceHandle: handle}
}

func run(t *testing.T, flow model.Flow, initial model.Variables) (model.Results, model.Variables, *recordBus) {
	t.Helper()
	bus := &recordBus{}
	eng := New(plugin.Deps{Bus: bus})
	results, vars := eng.Run(context.Background(), "exec-test", flow, initial)
	return results, vars, bus
}

func TestConditionSelectsTrueBranch(t *testing.T) {
	flow := model.Flow{
		Nodes: []model.Node{
			node("in", model.TypeInput, map[string]any{"type": "number", "value": "42"}),
			node("cond", model.TypeCondition, map[string]any{"condition": "greaterThan", "targetValue": "10"}),
			node("yes", model.TypeOutput, nil),
			node("no", model.TypeOutput, nil),
		},
		Edges: []model.Edge{
			edge("in", "cond", ""),
			edge("cond", "yes", model.HandleTrue),
			edge("cond", "no", model.HandleFalse),
		},
	}

	results, _, _ := run(t, flow, nil)

	cond := results["cond"]
	assert.Equal(t, model.HandleTrue, cond.ActiveHandle)
	assert.Equal(t, true, cond.Output.(map[string]any)["result"])
	assert.Contains(t, results, "yes")
	assert.NotContains(t, results, "no")
	// the condition output has no data entry, so the whole output is forwarded
	assert.Equal(t, map[string]any{
		"status": "ok",
		"data":   map[string]any{"result": true, "input": 42.0},
	}, results["yes"].Output)
}

func TestLoopTermination(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			quoted := make([]string, n)
			for i := range quoted {
				quoted[i] = fmt.Sprintf(`"item-%d"`, i)
			}
			arr := "[" + strings.Join(quoted, ",") + "]"

			flow := model.Flow{
				Nodes: []model.Node{
					node("src", model.TypeInput, map[string]any{"type": "json", "value": arr}),
					node("loop", model.TypeLoop, nil),
					node("body", model.TypeCounter, map[string]any{"variable": "seen", "operation": "append"}),
					node("done", model.TypeCaseSuccess, nil),
				},
				Edges: []model.Edge{
					edge("src", "loop", ""),
					edge("loop", "body", model.HandleBody),
					edge("loop", "done", model.HandleDone),
				},
			}

			results, vars, bus := run(t, flow, nil)

			var bodies, dones int
			for _, e := range bus.completed("loop") {
				switch e.fields["handle"] {
				case model.HandleBody:
					assert.Equal(t, 0, dones, "body after done")
					bodies++
				case model.HandleDone:
					dones++
				}
			}
			assert.Equal(t, n, bodies)
			assert.Equal(t, 1, dones)
			assert.Len(t, bus.completed("done"), 1)
			assert.Equal(t, map[string]any{"status": "done", "index": n}, results["loop"].Output)

			if n == 0 {
				assert.NotContains(t, vars, "seen")
				return
			}
			want := make([]any, n)
			for i := range want {
				want[i] = fmt.Sprintf("item-%d", i)
			}
			assert.Equal(t, want, vars["seen"])
		})
	}
}

func TestDeterministicRuns(t *testing.T) {
	flow := model.Flow{
		Nodes: []model.Node{
			node("a", model.TypeInput, map[string]any{"type": "json", "value": `[{"n":1},{"n":2}]`}),
			node("f", model.TypeFilter, map[string]any{"property": "n", "condition": "equals", "value": "2"}),
			node("c", model.TypeCapture, map[string]any{"path": "0.n", "variable": "picked"}),
			node("b", model.TypeMapper, map[string]any{"mapping": map[string]any{"2": "two"}}),
		},
		Edges: []model.Edge{edge("a", "f", ""), edge("f", "c", ""), edge("c", "b", "")},
	}

	r1, v1, _ := run(t, flow, model.Variables{"seed": "x"})
	r2, v2, _ := run(t, flow, model.Variables{"seed": "x"})
	require.Equal(t, r1, r2)
	require.Equal(t, v1, v2)
	assert.Equal(t, 2.0, v1["picked"])
	assert.Equal(t, map[string]any{"data": "two"}, r1["b"].Output)
}

func TestCounterAppendScenario(t *testing.T) {
	flow := func(value string) model.Flow {
		return model.Flow{
			Nodes: []model.Node{
				node("in", model.TypeInput, map[string]any{"value": value}),
				node("ctr", model.TypeCounter, map[string]any{"variable": "list", "operation": "append"}),
			},
			Edges: []model.Edge{edge("in", "ctr", "")},
		}
	}

	results, vars, _ := run(t, flow("x"), nil)
	assert.Equal(t, []any{"x"}, vars["list"])
	assert.Equal(t, map[string]any{"variable": "list", "status": "updated"}, results["ctr"].Output)

	_, vars, _ = run(t, flow("y"), vars)
	assert.Equal(t, []any{"x", "y"}, vars["list"])
}

func TestStackOrderIsLIFO(t *testing.T) {
	flow := model.Flow{
		Nodes: []model.Node{
			node("b", model.TypeOutput, nil),
			node("a", model.TypeStart, nil),
			node("c", model.TypeOutput, nil),
			node("a2", model.TypeOutput, nil),
		},
		Edges: []model.Edge{edge("a", "a2", "")},
	}

	_, _, bus := run(t, flow, nil)
	// roots sorted [a b c]; the stack pops c first, a last, then a's successor.
	assert.Equal(t, []string{"c", "b", "a", "a2"}, bus.started())
}

func TestStartNodeWithIncomingEdgeIsRoot(t *testing.T) {
	flow := model.Flow{
		Nodes: []model.Node{
			node("s", model.TypeStart, nil),
			node("x", model.TypeOutput, nil),
		},
		Edges: []model.Edge{edge("x", "s", ""), edge("ghost", "x", "")},
	}

	results, _, bus := run(t, flow, nil)
	// x has an incoming edge from a missing node so only s starts; x is never reached.
	assert.Equal(t, []string{"s"}, bus.started())
	assert.NotContains(t, results, "x")
}

func TestRevisitCapStopsCycles(t *testing.T) {
	flow := model.Flow{
		Nodes: []model.Node{
			node("s", model.TypeStart, nil),
			node("p", model.TypeOutput, nil),
			node("q", model.TypeCounter, map[string]any{"variable": "n", "operation": "increment", "amount": "1"}),
		},
		Edges: []model.Edge{edge("s", "p", ""), edge("p", "q", ""), edge("q", "p", "")},
	}

	results, vars, bus := run(t, flow, nil)

	assert.Equal(t, float64(MaxVisits), vars["n"])
	assert.Len(t, bus.completed("p"), MaxVisits)
	assert.Equal(t, model.StatusSuccess, results["p"].Status)

	var capped int
	for _, e := range bus.events {
		if e.name == "node_revisit_capped" {
			capped++
		}
	}
	assert.Equal(t, 1, capped)
}

func TestFailuresDoNotAbort(t *testing.T) {
	flow := model.Flow{
		Nodes: []model.Node{
			node("f", model.TypeCaseFail, nil),
			node("u", "mystery", nil),
			node("after", model.TypeCaseSuccess, nil),
		},
		Edges: []model.Edge{edge("f", "u", ""), edge("u", "after", "")},
	}

	results, _, _ := run(t, flow, nil)

	assert.True(t, results.Failed())
	assert.Equal(t, model.StatusError, results["f"].Status)
	assert.Equal(t, "Explicit Failure Node Triggered", results["f"].Error)
	assert.Equal(t, model.StatusSkipped, results["u"].Status)
	assert.Equal(t, map[string]any{"message": "Unknown node type"}, results["u"].Output)
	assert.Equal(t, model.StatusSuccess, results["after"].Status)
}

func TestMissingPredecessorIsNull(t *testing.T) {
	// Diamond: root pushes l then r; r runs first, so j sees l without a result yet.
	flow := model.Flow{
		Nodes: []model.Node{
			node("root", model.TypeInput, map[string]any{"value": "v"}),
			node("l", model.TypeOutput, nil),
			node("r", model.TypeOutput, nil),
			node("j", model.TypeCapture, map[string]any{"variable": "got"}),
		},
		Edges: []model.Edge{
			edge("root", "l", ""),
			edge("root", "r", ""),
			edge("l", "j", ""),
			edge("r", "j", ""),
		},
	}

	results, vars, bus := run(t, flow, nil)

	assert.Equal(t, []string{"root", "r", "j", "l", "j"}, bus.started())
	assert.Equal(t, "v", vars["got"])
	assert.Equal(t, "v", results["j"].Output.(map[string]any)["data"])
}

func TestIndex(t *testing.T) {
	flow := model.Flow{
		Nodes: []model.Node{
			node("a", model.TypeInput, map[string]any{"value": "first"}),
			node("b", model.TypeOutput, nil),
			node("a", model.TypeInput, map[string]any{"value": "second"}),
		},
		Edges: []model.Edge{edge("a", "b", "x"), edge("a", "missing", ""), edge("ghost", "b", "")},
	}

	ix := buildIndex(flow)

	assert.Equal(t, "second", ix.nodes["a"].Data["value"])
	require.Len(t, ix.outgoing["a"], 2)
	assert.Equal(t, "b", ix.outgoing["a"][0].target)
	assert.Equal(t, "x", ix.outgoing["a"][0].edge.SourceHandle)
	assert.Equal(t, []model.ID{"a", "ghost"}, ix.incoming["b"])
	assert.Empty(t, ix.incoming["a"])
	assert.Equal(t, []model.ID{"a"}, ix.roots(flow))
}
