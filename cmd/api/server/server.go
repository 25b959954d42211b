package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Tsinling0525/flowrun/engine"
	"github.com/Tsinling0525/flowrun/format/reactflow"
	"github.com/Tsinling0525/flowrun/infra"
	"github.com/Tsinling0525/flowrun/model"
)

const version = "1.0.0"

// RunRequest is the body of POST /flows/run.
type RunRequest struct {
	Flow      model.Flow      `json:"flow"`
	Variables model.Variables `json:"variables"`
}

// StoredRunRequest is the body of POST /flows/:name/run.
type StoredRunRequest struct {
	Variables model.Variables `json:"variables"`
}

// APIResponse represents the API response
type APIResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func sendResponse(c *gin.Context, statusCode int, success bool, data map[string]any, errorMsg string) {
	c.JSON(statusCode, APIResponse{Success: success, Data: data, Error: errorMsg})
}

func sendSuccess(c *gin.Context, data map[string]any) {
	sendResponse(c, http.StatusOK, true, data, "")
}

func sendError(c *gin.Context, statusCode int, errorMsg string) {
	sendResponse(c, statusCode, false, nil, errorMsg)
}

type handlers struct {
	eng   *engine.Engine
	store *infra.FlowStore
	log   zerolog.Logger
}

func (h *handlers) health(c *gin.Context) {
	sendSuccess(c, map[string]any{"status": "healthy", "timestamp": time.Now().Unix(), "version": version})
}

func (h *handlers) run(c *gin.Context, flow model.Flow, variables model.Variables) {
	execID := uuid.NewString()
	ctx := h.log.WithContext(c.Request.Context())
	results, final := h.eng.Run(ctx, execID, flow, variables)
	sendSuccess(c, map[string]any{
		"executionId": execID,
		"results":     results,
		"variables":   final,
		"failed":      results.Failed(),
	})
}

func (h *handlers) runPosted(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if err := reactflow.Validate(req.Flow); err != nil {
		sendError(c, http.StatusBadRequest, err.Error())
		return
	}
	h.run(c, req.Flow, req.Variables)
}

func (h *handlers) runStored(c *gin.Context) {
	var req StoredRunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			sendError(c, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}
	}
	flow, err := h.store.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		sendError(c, storeStatus(err), err.Error())
		return
	}
	h.run(c, flow, req.Variables)
}

func (h *handlers) listFlows(c *gin.Context) {
	names, err := h.store.List(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, err.Error())
		return
	}
	sendSuccess(c, map[string]any{"flows": names})
}

func (h *handlers) getFlow(c *gin.Context) {
	flow, err := h.store.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		sendError(c, storeStatus(err), err.Error())
		return
	}
	sendSuccess(c, map[string]any{"name": c.Param("name"), "flow": flow})
}

func (h *handlers) putFlow(c *gin.Context) {
	var flow model.Flow
	if err := c.ShouldBindJSON(&flow); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if err := h.store.Put(c.Request.Context(), c.Param("name"), flow); err != nil {
		sendError(c, storeStatus(err), err.Error())
		return
	}
	sendSuccess(c, map[string]any{"name": c.Param("name")})
}

func (h *handlers) deleteFlow(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("name")); err != nil {
		sendError(c, storeStatus(err), err.Error())
		return
	}
	sendSuccess(c, map[string]any{"name": c.Param("name"), "deleted": true})
}

func storeStatus(err error) int {
	switch {
	case errors.Is(err, infra.ErrFlowNotFound):
		return http.StatusNotFound
	case errors.Is(err, infra.ErrInvalidFlowName), errors.Is(err, reactflow.ErrEmptyFlow), errors.Is(err, reactflow.ErrInvalidFlow):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// NewRouter builds the Gin router with routes and middleware
func NewRouter(eng *engine.Engine, store *infra.FlowStore, log zerolog.Logger) *gin.Engine {
	h := &handlers{eng: eng, store: store, log: log}

	r := gin.New()
	r.Use(requestLogger(log))
	r.Use(gin.Recovery())
	// CORS
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", h.health)
	r.POST("/flows/run", h.runPosted)
	r.GET("/flows", h.listFlows)
	r.GET("/flows/:name", h.getFlow)
	r.PUT("/flows/:name", h.putFlow)
	r.DELETE("/flows/:name", h.deleteFlow)
	r.POST("/flows/:name/run", h.runStored)

	return r
}
