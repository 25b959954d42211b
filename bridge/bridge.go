// Package bridge translates between an inbound HTTP request, the variables a
// run starts with, and the reply derived from the run's results.
package bridge

import (
	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/nodes/server"
	"github.com/Tsinling0525/flowrun/vars"
)

// NoResponseBody is sent when the run produced no server response.
const NoResponseBody = "Flow executed, but no ServerResponse node found."

// Request is the part of an inbound HTTP request exposed to a run.
type Request struct {
	Method  string
	Path    string
	Body    string
	Query   map[string]string
	Headers map[string]string
}

// Variables seeds the reserved request keys on top of base. base is not modified.
func Variables(base model.Variables, req Request) model.Variables {
	out := make(model.Variables, len(base)+5)
	for k, v := range base {
		out[k] = v
	}
	query := make(map[string]any, len(req.Query))
	for k, v := range req.Query {
		query[k] = v
	}
	headers := make(map[string]any, len(req.Headers))
	for k, v := range req.Headers {
		headers[k] = v
	}
	out[model.VarReqMethod] = req.Method
	out[model.VarReqBody] = req.Body
	out[model.VarReqQuery] = query
	out[model.VarReqPath] = req.Path
	out[model.VarReqHeaders] = headers
	return out
}

// Reply is what the listener writes back.
type Reply struct {
	Status int
	Body   string
	// JSON is set when the body was rendered from a non-string value.
	JSON bool
}

// ReplyFor finds the first serverResponse node, in flow order, that produced
// a server_response and turns it into a Reply.
func ReplyFor(flow model.Flow, results model.Results) Reply {
	for _, n := range flow.Nodes {
		if n.Type != model.TypeServerResponse {
			continue
		}
		res, ok := results[n.ID]
		if !ok {
			continue
		}
		out, ok := res.Output.(map[string]any)
		if !ok {
			continue
		}
		resp, ok := out["server_response"].(map[string]any)
		if !ok {
			continue
		}
		return Reply{Status: status(resp["status"]), Body: vars.Render(resp["body"]), JSON: !isString(resp["body"])}
	}
	return Reply{Status: server.DefaultStatus, Body: NoResponseBody}
}

func status(v any) int {
	var code int
	switch n := v.(type) {
	case int:
		code = n
	case float64:
		code = int(n)
	default:
		return server.DefaultStatus
	}
	if code < 100 || code > 999 {
		return server.DefaultStatus
	}
	return code
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}
