package httpnode

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

var errNoClient = errors.New("no http client configured")

var methods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// Request sends one HTTP call through the injected client.
// Config:
// - method: GET|POST|PUT|DELETE|PATCH (default GET)
// - endpoint: URL (falls back to url)
// - headers: map of string values
// - params: map of query values
// - body: object/array sent as JSON, string sent as text
// Every string above is substituted before sending.
type Request struct{ deps plugin.Deps }

func (n *Request) Init(ctx context.Context, deps plugin.Deps) error { n.deps = deps; return nil }

func (n *Request) Process(ctx context.Context, in *plugin.Input) model.ExecutionResult {
	req := n.build(in)
	log := zerolog.Ctx(ctx).With().Str("node", in.Node.ID).Str("method", req.Method).Str("url", req.URL).Logger()

	if n.deps.HTTP == nil {
		return in.Fail(nil, errNoClient.Error())
	}
	log.Debug().Msg("sending http request")
	resp, err := n.deps.HTTP.Do(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("http request failed")
		return in.Fail(nil, err.Error())
	}
	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(resp.Body)).Msg("http response received")

	headers := map[string]any{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return in.Success(map[string]any{
		"status":  resp.StatusCode,
		"data":    decodeBody(resp),
		"headers": headers,
	})
}

func (n *Request) build(in *plugin.Input) *plugin.HTTPRequest {
	cfg := in.Config()
	method := strings.ToUpper(cfg.String("method", http.MethodGet))
	if !methods[method] {
		method = http.MethodGet
	}
	url := cfg.String("endpoint", cfg.String("url", ""))
	req := &plugin.HTTPRequest{
		Method:  method,
		URL:     in.Vars.Substitute(url),
		Headers: substituteMap(in, cfg.Map("headers")),
		Query:   substituteMap(in, cfg.Map("params")),
	}

	switch body := cfg.Raw("body").(type) {
	case nil:
	case string:
		if body != "" {
			req.Body = []byte(in.Vars.Substitute(body))
		}
	case map[string]any, []any:
		raw, err := sonic.ConfigStd.MarshalToString(body)
		if err != nil {
			break
		}
		text := in.Vars.Substitute(raw)
		if v, err := plugin.ParseJSON(text); err == nil {
			encoded, _ := sonic.ConfigStd.Marshal(v)
			req.Body = encoded
			setDefault(req.Headers, "Content-Type", "application/json")
		} else {
			req.Body = []byte(text)
		}
	}
	return req
}

// substituteMap keeps string values only.
func substituteMap(in *plugin.Input, m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = in.Vars.Substitute(s)
		}
	}
	return out
}

func setDefault(h map[string]string, key, value string) {
	for k := range h {
		if strings.EqualFold(k, key) {
			return
		}
	}
	h[key] = value
}

// decodeBody returns the body as JSON when it parses, whatever the declared
// content type, otherwise as raw text. An empty body decodes to nil.
func decodeBody(resp *plugin.HTTPResponse) any {
	if len(resp.Body) == 0 {
		return nil
	}
	var v any
	if err := sonic.ConfigStd.Unmarshal(resp.Body, &v); err == nil {
		return v
	}
	return string(resp.Body)
}
