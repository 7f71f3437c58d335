package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/logging"
)

// ControlTreeNode represents a node in the serialized control tree.
type ControlTreeNode struct {
	Type      string            `json:"type"`
	Name      string            `json:"name,omitempty"`
	ID        string            `json:"id,omitempty"`
	Lifecycle string            `json:"lifecycle"`
	Behaviors int               `json:"behaviors,omitempty"`
	Depth     int               `json:"depth"`
	Children  []ControlTreeNode `json:"children,omitempty"`
}

// PageInfo describes a registered page.
type PageInfo struct {
	Path     string `json:"path"`
	Template string `json:"template,omitempty"`
	Stateful bool   `json:"stateful"`
}

// DebugServer serves engine diagnostics over HTTP.
type DebugServer struct {
	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// StartDebugServer starts the debug server on addr. Use port 0 for an
// ephemeral port and Addr to find it.
func (e *Engine) StartDebugServer(addr string) (*DebugServer, error) {
	// Bind listener first to fail fast on port conflicts
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("debug server listen: %w", err)
	}

	d := &DebugServer{
		server:   &http.Server{Handler: e.DebugHandler()},
		listener: listener,
	}
	go func() {
		if err := d.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Logger().Error("debug server error", "err", err)
		}
	}()
	return d, nil
}

// Addr returns the address the server listens on.
func (d *DebugServer) Addr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// Stop gracefully shuts down the debug server.
func (d *DebugServer) Stop() {
	d.mu.Lock()
	server := d.server
	d.server = nil
	d.listener = nil
	d.mu.Unlock()

	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

// DebugHandler returns the diagnostics endpoints: /health, /pages,
// /control-tree?path=..., /requests and /runtime.
func (e *Engine) DebugHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", getOnly(handleHealth))
	mux.HandleFunc("/pages", getOnly(e.handlePages))
	mux.HandleFunc("/control-tree", getOnly(e.handleControlTree))
	mux.HandleFunc("/requests", getOnly(e.handleRequests))
	mux.HandleFunc("/runtime", getOnly(e.handleRuntime))
	return mux
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer errors.Recover("engine.debug "+r.URL.Path, func(pe *errors.PanicError) {
			http.Error(w, pe.Error(), http.StatusInternalServerError)
		})
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	// Encode to buffer first so we can catch errors
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleHealth returns a simple health check response.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handlePages lists the registered pages.
func (e *Engine) handlePages(w http.ResponseWriter, r *http.Request) {
	paths := e.Pages()
	pages := make([]PageInfo, 0, len(paths))
	for _, p := range paths {
		entry := e.lookup(p)
		if entry == nil {
			continue
		}
		pages = append(pages, PageInfo{
			Path:     entry.path,
			Template: entry.config.Template,
			Stateful: entry.stateful.Load(),
		})
	}
	writeJSON(w, pages)
}

// handleControlTree builds a fresh page for ?path= and returns its control
// tree as constructed, before any request processing.
func (e *Engine) handleControlTree(w http.ResponseWriter, r *http.Request) {
	entry := e.lookup(r.URL.Query().Get("path"))
	if entry == nil {
		http.Error(w, "no such page", http.StatusNotFound)
		return
	}

	page := e.newPage(entry)
	nodes := make([]ControlTreeNode, 0, len(page.Controls()))
	for _, c := range page.Controls() {
		nodes = append(nodes, serializeControlTree(c, 0))
	}
	writeJSON(w, struct {
		Path     string            `json:"path"`
		Type     string            `json:"type"`
		Controls []ControlTreeNode `json:"controls"`
	}{entry.path, reflect.TypeOf(page).String(), nodes})
}

// maxTreeDepth limits recursion depth to prevent stack overflow from malformed trees.
const maxTreeDepth = 500

func serializeControlTree(c core.Control, depth int) ControlTreeNode {
	node := ControlTreeNode{
		Type:      reflect.TypeOf(c).String(),
		Name:      c.Name(),
		ID:        c.ID(),
		Lifecycle: c.Lifecycle().String(),
		Behaviors: len(c.Behaviors()),
		Depth:     depth,
	}
	if depth >= maxTreeDepth {
		return node
	}
	if container, ok := c.(core.Container); ok {
		for _, child := range container.Controls() {
			node.Children = append(node.Children, serializeControlTree(child, depth+1))
		}
	}
	return node
}

// handleRequests returns recent request samples as JSON.
func (e *Engine) handleRequests(w http.ResponseWriter, r *http.Request) {
	if e.trace == nil {
		http.Error(w, "request tracing disabled", http.StatusServiceUnavailable)
		return
	}
	resp := e.trace.Snapshot()
	applyRequestFilters(r, &resp)
	writeJSON(w, resp)
}

// handleRuntime returns recent runtime/GC samples as JSON.
func (e *Engine) handleRuntime(w http.ResponseWriter, r *http.Request) {
	if e.runtime == nil {
		http.Error(w, "runtime sampling disabled", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, struct {
		Samples []RuntimeSample `json:"samples"`
	}{applyRuntimeFilters(r, e.runtime.Snapshot())})
}

func applyRequestFilters(r *http.Request, resp *RequestTimeline) {
	limit := 0
	if value := r.URL.Query().Get("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var filters []func(RequestSample) bool
	if v := parseFloatQuery(r, "min_ms"); v > 0 {
		filters = append(filters, func(s RequestSample) bool { return s.DurationMs >= v })
	}
	if v := parseFloatQuery(r, "process_ms"); v > 0 {
		filters = append(filters, func(s RequestSample) bool { return s.Phases.ProcessMs >= v })
	}
	if v := parseFloatQuery(r, "render_ms"); v > 0 {
		filters = append(filters, func(s RequestSample) bool { return s.Phases.RenderMs >= v })
	}
	if p := r.URL.Query().Get("path"); p != "" {
		filters = append(filters, func(s RequestSample) bool { return s.Path == p })
	}
	if value := r.URL.Query().Get("errors"); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil && parsed {
			filters = append(filters, func(s RequestSample) bool { return s.Error != "" || s.Status >= 500 })
		}
	}

	if len(filters) > 0 {
		filtered := make([]RequestSample, 0, len(resp.Samples))
	outer:
		for _, sample := range resp.Samples {
			for _, f := range filters {
				if !f(sample) {
					continue outer
				}
			}
			filtered = append(filtered, sample)
		}
		resp.Samples = filtered
	}
	if limit > 0 && len(resp.Samples) > limit {
		resp.Samples = resp.Samples[len(resp.Samples)-limit:]
	}
}

func applyRuntimeFilters(r *http.Request, samples []RuntimeSample) []RuntimeSample {
	windowSeconds := parseFloatQuery(r, "window")
	if windowSeconds > 0 {
		cutoff := time.Now().Add(-time.Duration(windowSeconds * float64(time.Second))).UnixMilli()
		filtered := make([]RuntimeSample, 0, len(samples))
		for _, sample := range samples {
			if sample.Timestamp >= cutoff {
				filtered = append(filtered, sample)
			}
		}
		samples = filtered
	}
	limit := 0
	if value := r.URL.Query().Get("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	return samples
}

func parseFloatQuery(r *http.Request, key string) float64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}
