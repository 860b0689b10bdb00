// Package api implements the REST surface of the gateway: the versioned
// tool discovery and execution routes, the uniform response envelope, and
// the generated OpenAPI description.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/opsgate/internal/common"
	"github.com/bobmcallan/opsgate/internal/registry"
)

// Router maps HTTP method + path under the versioned prefix onto the tool
// registry. It always answers in envelope form, except for the raw OpenAPI
// document.
type Router struct {
	registry *registry.Registry
	openapi  *Generator
	logger   *common.Logger
	deps     any
}

// NewRouter creates the REST router over the given registry. deps is handed
// to tool handlers through their RequestContext.
func NewRouter(reg *registry.Registry, gen *Generator, logger *common.Logger, deps any) *Router {
	return &Router{
		registry: reg,
		openapi:  gen,
		logger:   logger,
		deps:     deps,
	}
}

// IsAPIRequest reports whether path belongs to this router. The multiplexer
// uses it to decide which surface handles an inbound request; paths outside
// the versioned prefix are never handled here.
func (rt *Router) IsAPIRequest(path string) bool {
	return path == BasePath || strings.HasPrefix(path, BasePath+"/")
}

// ServeHTTP dispatches a request under the API prefix.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		rt.handlePreflight(w)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, BasePath)

	switch {
	case rest == "/tools":
		rt.handleDiscovery(w, r)

	case strings.HasPrefix(rest, "/tools/"):
		name := strings.TrimPrefix(rest, "/tools/")
		if name == "" || strings.Contains(name, "/") {
			writeError(w, http.StatusNotFound, CodeNotFound,
				"the requested endpoint does not exist", newMeta(0))
			return
		}
		rt.handleExecution(w, r, name)

	case rest == "/openapi":
		rt.handleOpenAPI(w, r)

	default:
		writeError(w, http.StatusNotFound, CodeNotFound,
			"the requested endpoint does not exist", newMeta(0))
	}
}

// handlePreflight answers CORS preflight for any API path: permissive
// origin with an explicit method allow-list, no body.
func (rt *Router) handlePreflight(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.WriteHeader(http.StatusOK)
}

// handleDiscovery serves GET /tools. An empty result is not an error.
func (rt *Router) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed,
			fmt.Sprintf("method %s is not allowed on this path, use GET", r.Method), newMeta(0))
		return
	}

	q := r.URL.Query()
	filter := &registry.Filter{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
	}

	defs := rt.registry.List(filter)
	tools := make([]ToolSummary, len(defs))
	for i, def := range defs {
		tools[i] = ToolSummary{
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			Tags:        def.Tags,
		}
	}

	writeSuccess(w, http.StatusOK, DiscoveryData{Tools: tools, Total: len(tools)}, newMeta(0))
}

// handleExecution serves POST /tools/{name}. Router-level failures (unknown
// tool, bad body, wrong method) are cheap and synchronous; handler failures
// are caught and reported in the envelope so one failing invocation never
// affects other requests.
func (rt *Router) handleExecution(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed,
			fmt.Sprintf("method %s is not allowed on this path, use POST", r.Method), newMeta(0))
		return
	}

	def, ok := rt.registry.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, CodeToolNotFound,
			fmt.Sprintf("tool %q is not registered", name), newMeta(0))
		return
	}

	params, err := decodeParams(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error(), newMeta(0))
		return
	}

	rc := registry.NewRequestContext(rt.logger, rt.deps)
	start := time.Now()
	result, err := rt.invoke(r, def, params, rc)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		rt.logger.Warn().
			Str("tool", name).
			Str("request_id", rc.ID).
			Str("error", err.Error()).
			Msg("tool execution failed")
		writeError(w, http.StatusInternalServerError, CodeExecutionError, err.Error(), newMeta(elapsed))
		return
	}

	writeSuccess(w, http.StatusOK, ExecutionData{
		Tool:          name,
		Result:        result,
		ExecutionTime: elapsed,
	}, newMeta(elapsed))
}

// invoke runs the tool handler, converting a panic into an error so a
// misbehaving tool cannot take down the listener.
func (rt *Router) invoke(r *http.Request, def *registry.Definition, params map[string]any, rc *registry.RequestContext) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool panicked: %v", rec)
		}
	}()
	return def.Handler(r.Context(), params, rc)
}

// handleOpenAPI serves GET /openapi: the raw document, not enveloped.
func (rt *Router) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed,
			fmt.Sprintf("method %s is not allowed on this path, use GET", r.Method), newMeta(0))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(rt.openapi.Generate())
}

// decodeParams parses the execution request body. A missing, null, or
// malformed body is an INVALID_REQUEST; the tool handler is never invoked
// for one.
func decodeParams(body io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("request body is required")
	}

	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("request body is not a JSON object: %v", err)
	}
	if params == nil {
		return nil, fmt.Errorf("request body must not be null")
	}
	return params, nil
}
