package engine

import (
	"testing"
	"time"
)

func TestRequestTraceBuffer_Wraps(t *testing.T) {
	b := NewRequestTraceBuffer(3, 10*time.Millisecond)
	for i := 1; i <= 5; i++ {
		b.Add(RequestSample{DurationMs: float64(i)}, time.Duration(i)*4*time.Millisecond)
	}

	snap := b.Snapshot()
	if len(snap.Samples) != 3 {
		t.Fatalf("samples = %d, want 3", len(snap.Samples))
	}
	for i, want := range []float64{3, 4, 5} {
		if snap.Samples[i].DurationMs != want {
			t.Errorf("sample %d = %v, want %v", i, snap.Samples[i].DurationMs, want)
		}
	}
	// 12ms, 16ms and 20ms exceed the 10ms threshold.
	if snap.SlowRequests != 3 {
		t.Errorf("slow = %d, want 3", snap.SlowRequests)
	}
	if snap.ThresholdMs != 10 {
		t.Errorf("threshold = %v, want 10", snap.ThresholdMs)
	}
}

func TestRequestTraceBuffer_Defaults(t *testing.T) {
	b := NewRequestTraceBuffer(0, 0)
	if b.Capacity() != requestTraceSamplesDefault {
		t.Errorf("capacity = %d", b.Capacity())
	}
	if b.Threshold() != defaultSlowRequestThreshold {
		t.Errorf("threshold = %v", b.Threshold())
	}
	if snap := b.Snapshot(); len(snap.Samples) != 0 {
		t.Errorf("empty buffer returned %d samples", len(snap.Samples))
	}
}

func TestRuntimeSampleConfig(t *testing.T) {
	interval, window := runtimeSampleConfig(&DiagnosticsConfig{
		RuntimeSampleInterval: time.Second,
		RuntimeSampleWindow:   time.Minute,
	})
	if interval != time.Second || window != time.Minute {
		t.Errorf("config = %v, %v", interval, window)
	}
}

func TestRuntimeSampler_StartStop(t *testing.T) {
	buf := NewRuntimeSampleBuffer(time.Second, 10*time.Millisecond)
	var load serverLoad
	load.begin()
	load.end(500)
	s := startRuntimeSampler(buf, 10*time.Millisecond, &load)
	deadline := time.Now().Add(2 * time.Second)
	for len(buf.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.stop()
	s.stop()
	samples := buf.Snapshot()
	if len(samples) == 0 {
		t.Fatal("sampler recorded nothing")
	}
	if got := samples[0]; got.Served != 1 || got.Failed != 1 || got.InFlight != 0 || got.Goroutines == 0 {
		t.Errorf("sample = %+v", got)
	}
}

func TestNewRuntimeSampleBuffer_Capped(t *testing.T) {
	b := NewRuntimeSampleBuffer(time.Hour, time.Second)
	if b.Window() != runtimeSampleMaxSamples*time.Second {
		t.Errorf("window = %v", b.Window())
	}
	for i := 0; i < runtimeSampleMaxSamples+3; i++ {
		b.Add(RuntimeSample{Timestamp: int64(i)})
	}
	got := b.Snapshot()
	if len(got) != runtimeSampleMaxSamples || got[0].Timestamp != 3 {
		t.Errorf("kept %d samples starting at %d", len(got), got[0].Timestamp)
	}
}
