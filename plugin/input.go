package plugin

import (
	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/vars"
)

// Input is what a handler sees for one execution: the node, its
// predecessors, a read-only view of results so far and the run's variables.
type Input struct {
	Node    model.Node
	Parents []model.ID
	Vars    *vars.Store

	results model.Results
}

func NewInput(node model.Node, parents []model.ID, results model.Results, store *vars.Store) *Input {
	return &Input{Node: node, Parents: parents, Vars: store, results: results}
}

func (in *Input) Config() Config { return Config(in.Node.Data) }

// Result returns the latest result recorded for id.
func (in *Input) Result(id model.ID) (model.ExecutionResult, bool) {
	r, ok := in.results[id]
	return r, ok
}

// Previous returns this node's own result from an earlier visit.
func (in *Input) Previous() (model.ExecutionResult, bool) {
	return in.Result(in.Node.ID)
}

// PrimaryInput resolves the payload of the first predecessor: its output's
// "data" entry when present (even if null), otherwise the whole output.
func (in *Input) PrimaryInput() any {
	if len(in.Parents) == 0 {
		return nil
	}
	r, ok := in.results[in.Parents[0]]
	if !ok {
		return nil
	}
	return Payload(r.Output)
}

// Payload unwraps the "data" entry of an output object.
func Payload(output any) any {
	if m, ok := output.(map[string]any); ok {
		if d, ok := m["data"]; ok {
			return d
		}
	}
	return output
}

func (in *Input) Success(output any) model.ExecutionResult {
	return model.ExecutionResult{NodeID: in.Node.ID, Status: model.StatusSuccess, Output: output}
}

func (in *Input) Branch(output any, handle string) model.ExecutionResult {
	r := in.Success(output)
	r.ActiveHandle = handle
	return r
}

func (in *Input) Fail(output any, msg string) model.ExecutionResult {
	return model.ExecutionResult{NodeID: in.Node.ID, Status: model.StatusError, Output: output, Error: msg}
}
