package model

type ID = string

// NodeType is the closed set of node kinds a flow may contain.
type NodeType string

const (
	TypeStart          NodeType = "start"
	TypeInput          NodeType = "input"
	TypeCondition      NodeType = "condition"
	TypeLoop           NodeType = "loop"
	TypeCapture        NodeType = "capture"
	TypeCounter        NodeType = "counter"
	TypeHTTPRequest    NodeType = "httpRequest"
	TypeMapper         NodeType = "mapper"
	TypeScraper        NodeType = "scraper"
	TypeFilter         NodeType = "filter"
	TypeArrayMap       NodeType = "arrayMap"
	TypeAssert         NodeType = "assert"
	TypeServerTrigger  NodeType = "serverTrigger"
	TypeServerResponse NodeType = "serverResponse"
	TypeOutput         NodeType = "output"
	TypeComment        NodeType = "comment"
	TypeGroup          NodeType = "group"
	TypeDisplay        NodeType = "display"
	TypeTabulize       NodeType = "tabulize"
	TypeValueSelector  NodeType = "valueselector"
	TypeCarousel       NodeType = "carousel"
	TypeResponse       NodeType = "response"
	TypeDebug          NodeType = "debug"
	TypeCaseSuccess    NodeType = "caseSuccess"
	TypeCaseFail       NodeType = "caseFail"
)

// Branch handles emitted by branching nodes.
const (
	HandleTrue  = "true"
	HandleFalse = "false"
	HandleBody  = "body"
	HandleDone  = "done"
)

type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Node struct {
	ID       ID             `json:"id" yaml:"id" validate:"required"`
	Type     NodeType       `json:"type" yaml:"type" validate:"required"`
	Position Position       `json:"position" yaml:"position"`
	Data     map[string]any `json:"data" yaml:"data"`
}

type Edge struct {
	ID           string `json:"id" yaml:"id"`
	Source       ID     `json:"source" yaml:"source"`
	Target       ID     `json:"target" yaml:"target"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty" yaml:"targetHandle,omitempty"`
	Animated     bool   `json:"animated,omitempty" yaml:"animated,omitempty"`
	Style        any    `json:"style,omitempty" yaml:"style,omitempty"`
}

type Flow struct {
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

type Status string

const (
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	StatusSkipped   Status = "skipped"
	StatusCompleted Status = "completed"
)

// ExecutionResult is the latest outcome of one node. An empty ActiveHandle
// means every outgoing edge is followed.
type ExecutionResult struct {
	NodeID       ID     `json:"node_id"`
	Status       Status `json:"status"`
	Output       any    `json:"output"`
	Error        string `json:"error,omitempty"`
	ActiveHandle string `json:"active_handle,omitempty"`
}

// Results maps node ids to their latest result.
type Results map[ID]ExecutionResult

// Failed reports whether any node ended with an error status.
func (r Results) Failed() bool {
	for _, res := range r {
		if res.Status == StatusError {
			return true
		}
	}
	return false
}

type Variables = map[string]any

// Variables seeded from an inbound request in server mode.
const (
	VarReqMethod  = "req_method"
	VarReqBody    = "req_body"
	VarReqQuery   = "req_query"
	VarReqPath    = "req_path"
	VarReqHeaders = "req_headers"
)
