package engine

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-click/click/pkg/core"
)

// waitForServer polls the health endpoint until ready or timeout.
func waitForServer(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://%s/health", addr)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}

// waitForServerDown polls until the server stops responding or timeout.
func waitForServerDown(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://%s/health", addr)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err != nil {
			return nil // Connection refused = server is down
		}
		resp.Body.Close()
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("server still running after %v", timeout)
}

func debugGet(t *testing.T, e *Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.DebugHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDebugServer_StartStop(t *testing.T) {
	e := newTestEngine(t)
	d, err := e.StartDebugServer("localhost:0")
	if err != nil {
		t.Fatalf("failed to start debug server: %v", err)
	}
	defer d.Stop()

	addr := d.Addr()
	if err := waitForServer(addr, 2*time.Second); err != nil {
		t.Fatalf("server not ready: %v", err)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
	if err != nil {
		t.Fatalf("failed to reach health endpoint: %v", err)
	}
	defer resp.Body.Close()

	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", health["status"])
	}

	d.Stop()
	if err := waitForServerDown(addr, 2*time.Second); err != nil {
		t.Errorf("server did not stop: %v", err)
	}
	if d.Addr() != "" {
		t.Errorf("Addr after Stop = %q, want empty", d.Addr())
	}
}

func TestDebugServer_FailFastOnPortConflict(t *testing.T) {
	blocker, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to create blocker listener: %v", err)
	}
	defer blocker.Close()

	e := newTestEngine(t)
	d, err := e.StartDebugServer(blocker.Addr().String())
	if err == nil {
		d.Stop()
		t.Error("expected error when binding to occupied port, got nil")
	}
}

func TestDebugServer_MethodNotAllowed(t *testing.T) {
	e := newTestEngine(t)
	rec := httptest.NewRecorder()
	e.DebugHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405 for POST, got %d", rec.Code)
	}
}

func TestDebugServer_Pages(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("/b.htm", func() core.Page { return newLifecyclePage() })
	e.Handle("/a.htm", func() core.Page { return newLifecyclePage() })

	rec := debugGet(t, e, "/pages")
	var got []PageInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []PageInfo{{Path: "/a.htm"}, {Path: "/b.htm"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestDebugServer_ControlTree(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("/home.htm", func() core.Page {
		p := newLifecyclePage()
		box := core.NewContainer("box", "div")
		var log []string
		box.Add(newTracker("inner", &log))
		p.AddControl(box)
		return p
	})

	rec := debugGet(t, e, "/control-tree?path=/home.htm")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Path     string            `json:"path"`
		Controls []ControlTreeNode `json:"controls"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Path != "/home.htm" || len(got.Controls) != 2 {
		t.Fatalf("tree = %+v", got)
	}
	box := got.Controls[1]
	if box.Name != "box" || len(box.Children) != 1 || box.Children[0].Name != "inner" {
		t.Errorf("box node = %+v", box)
	}
	if box.Children[0].Depth != 1 || box.Children[0].Lifecycle != "constructed" {
		t.Errorf("child node = %+v", box.Children[0])
	}

	if rec := debugGet(t, e, "/control-tree?path=/missing.htm"); rec.Code != http.StatusNotFound {
		t.Errorf("missing page status = %d, want 404", rec.Code)
	}
}

func TestDebugServer_RequestsDisabled(t *testing.T) {
	e := newTestEngine(t)
	if rec := debugGet(t, e, "/requests"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("requests status = %d, want 503", rec.Code)
	}
	if rec := debugGet(t, e, "/runtime"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("runtime status = %d, want 503", rec.Code)
	}
}

func TestApplyRequestFilters(t *testing.T) {
	timeline := func() RequestTimeline {
		return RequestTimeline{Samples: []RequestSample{
			{Path: "/a.htm", Status: 200, DurationMs: 5, Phases: RequestPhaseTimings{RenderMs: 1}},
			{Path: "/b.htm", Status: 500, DurationMs: 40, Error: "boom"},
			{Path: "/a.htm", Status: 200, DurationMs: 80, Phases: RequestPhaseTimings{ProcessMs: 60, RenderMs: 10}},
			{Path: "/a.htm", Status: 200, DurationMs: 120, Phases: RequestPhaseTimings{RenderMs: 90}},
		}}
	}
	durations := func(samples []RequestSample) []float64 {
		out := make([]float64, len(samples))
		for i, s := range samples {
			out[i] = s.DurationMs
		}
		return out
	}

	tests := []struct {
		query string
		want  []float64
	}{
		{"", []float64{5, 40, 80, 120}},
		{"limit=2", []float64{80, 120}},
		{"min_ms=50", []float64{80, 120}},
		{"process_ms=50", []float64{80}},
		{"render_ms=5", []float64{80, 120}},
		{"path=/b.htm", []float64{40}},
		{"errors=true", []float64{40}},
		{"path=/a.htm&min_ms=10&limit=1", []float64{120}},
		{"min_ms=-3", []float64{5, 40, 80, 120}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := timeline()
			applyRequestFilters(httptest.NewRequest(http.MethodGet, "/requests?"+tt.query, nil), &resp)
			if diff := cmp.Diff(tt.want, durations(resp.Samples)); diff != "" {
				t.Errorf("filtered durations (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDebugServer_RequestsEndpoint(t *testing.T) {
	e := newTestEngine(t, WithDiagnostics(DefaultDiagnosticsConfig()))
	e.Handle("/home.htm", func() core.Page { return newLifecyclePage() })
	for i := 0; i < 3; i++ {
		serve(e, httptest.NewRequest(http.MethodGet, "/home.htm", nil))
	}

	rec := debugGet(t, e, "/requests?limit=2")
	var got RequestTimeline
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Samples) != 2 {
		t.Errorf("samples = %d, want 2", len(got.Samples))
	}
	if got.ThresholdMs != 250 {
		t.Errorf("threshold = %v, want 250", got.ThresholdMs)
	}
}

func TestApplyRuntimeFilters(t *testing.T) {
	now := time.Now().UnixMilli()
	samples := []RuntimeSample{
		{Timestamp: now - 60_000},
		{Timestamp: now - 5_000},
		{Timestamp: now - 1_000},
	}

	got := applyRuntimeFilters(httptest.NewRequest(http.MethodGet, "/runtime?window=10", nil), samples)
	if len(got) != 2 {
		t.Errorf("window filter kept %d samples, want 2", len(got))
	}
	got = applyRuntimeFilters(httptest.NewRequest(http.MethodGet, "/runtime?limit=1", nil), samples)
	if len(got) != 1 || got[0].Timestamp != now-1_000 {
		t.Errorf("limit filter = %+v", got)
	}
}

func TestDebugServer_ControlTreeFactoryPanic(t *testing.T) {
	captureErrors(t)
	e := newTestEngine(t)
	e.Handle("/broken.htm", func() core.Page { panic("bad factory") })

	rec := debugGet(t, e, "/control-tree?path=/broken.htm")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bad factory") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
