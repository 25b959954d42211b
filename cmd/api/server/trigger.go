package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Tsinling0525/flowrun/bridge"
	"github.com/Tsinling0525/flowrun/engine"
	"github.com/Tsinling0525/flowrun/model"
	"github.com/Tsinling0525/flowrun/plugin"
)

// ErrNoTrigger is returned when a flow has no serverTrigger node to serve.
var ErrNoTrigger = errors.New("flow has no serverTrigger node")

// Trigger is the listener configuration read from a flow's serverTrigger node.
type Trigger struct {
	Port   int
	Method string
	Path   string
}

// TriggerConfig reads the first serverTrigger node in flow order.
func TriggerConfig(flow model.Flow) (Trigger, error) {
	for _, n := range flow.Nodes {
		if n.Type != model.TypeServerTrigger {
			continue
		}
		cfg := plugin.Config(n.Data)
		t := Trigger{
			Port:   int(cfg.Float("port", 3000)),
			Method: strings.ToUpper(cfg.String("method", http.MethodGet)),
			Path:   cfg.String("path", "/webhook"),
		}
		if !strings.HasPrefix(t.Path, "/") {
			t.Path = "/" + t.Path
		}
		return t, nil
	}
	return Trigger{}, ErrNoTrigger
}

func (t Trigger) Addr() string { return fmt.Sprintf(":%d", t.Port) }

// NewTriggerRouter serves flow on the trigger's path for every method. Each
// request gets its own run seeded with env plus the request variables.
func NewTriggerRouter(eng *engine.Engine, flow model.Flow, env model.Variables, log zerolog.Logger) (*gin.Engine, error) {
	t, err := TriggerConfig(flow)
	if err != nil {
		return nil, err
	}
	r := gin.New()
	r.Use(requestLogger(log))
	r.Use(gin.Recovery())
	r.Any(t.Path, func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusBadRequest, "read body: %v", err)
			return
		}
		req := bridge.Request{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Body:    string(body),
			Query:   firstValues(c.Request.URL.Query()),
			Headers: firstValues(c.Request.Header),
		}
		execID := uuid.NewString()
		results, _ := eng.Run(log.WithContext(c.Request.Context()), execID, flow, bridge.Variables(env, req))
		log.Info().Str("exec", execID).Str("method", req.Method).Bool("failed", results.Failed()).Msg("trigger run finished")

		reply := bridge.ReplyFor(flow, results)
		contentType := "text/plain; charset=utf-8"
		if reply.JSON {
			contentType = "application/json"
		}
		c.Data(reply.Status, contentType, []byte(reply.Body))
	})
	return r, nil
}

func firstValues(m map[string][]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
