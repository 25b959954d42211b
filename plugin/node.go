package plugin

import (
	"context"
	"net/http"

	"github.com/Tsinling0525/flowrun/model"
)

type Deps struct {
	HTTP HTTPClient
	Bus  EventBus
}

// NodeHandler executes one node type. Process never fails the run: any
// problem is reported through the returned result.
type NodeHandler interface {
	Init(ctx context.Context, deps Deps) error
	Process(ctx context.Context, in *Input) model.ExecutionResult
}

type EventBus interface {
	Emit(ctx context.Context, event string, fields map[string]any) error
}

// HTTPClient is the outbound capability used by httpRequest nodes.
type HTTPClient interface {
	Do(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error)
}

type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   map[string]string
	Body    []byte
}

type HTTPResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
