package engine

import (
	"sync"
	"time"
)

const (
	requestTraceSamplesDefault  = 240
	defaultSlowRequestThreshold = 250 * time.Millisecond
)

// RequestPhaseTimings captures time spent in each lifecycle phase (ms).
type RequestPhaseTimings struct {
	InitMs    float64 `json:"initMs"`
	ProcessMs float64 `json:"processMs"`
	ActionsMs float64 `json:"actionsMs"`
	HandlerMs float64 `json:"handlerMs"`
	RenderMs  float64 `json:"renderMs"`
	DestroyMs float64 `json:"destroyMs"`
}

// RequestSample is a single request trace sample.
type RequestSample struct {
	Timestamp  int64               `json:"ts"`
	Method     string              `json:"method"`
	Path       string              `json:"path"`
	Status     int                 `json:"status"`
	Ajax       bool                `json:"ajax,omitempty"`
	Stateful   bool                `json:"stateful,omitempty"`
	DurationMs float64             `json:"durationMs"`
	Phases     RequestPhaseTimings `json:"phases"`
	Controls   int                 `json:"controls"`
	Error      string              `json:"error,omitempty"`
}

// RequestTimeline is the debug server response shape.
type RequestTimeline struct {
	Samples      []RequestSample `json:"samples"`
	SlowRequests int             `json:"slowRequests"`
	ThresholdMs  float64         `json:"thresholdMs"`
}

// RequestTraceBuffer stores recent request samples in a ring buffer.
type RequestTraceBuffer struct {
	mu        sync.RWMutex
	samples   ring[RequestSample]
	slow      int
	threshold time.Duration
}

// NewRequestTraceBuffer creates a new request trace buffer.
func NewRequestTraceBuffer(capacity int, threshold time.Duration) *RequestTraceBuffer {
	if capacity <= 0 {
		capacity = requestTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultSlowRequestThreshold
	}
	return &RequestTraceBuffer{
		samples:   newRing[RequestSample](capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *RequestTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.samples.capacity()
}

// Threshold returns the slow request threshold.
func (b *RequestTraceBuffer) Threshold() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threshold
}

// Add records a request sample and updates the slow request count.
func (b *RequestTraceBuffer) Add(sample RequestSample, duration time.Duration) {
	b.mu.Lock()
	b.samples.push(sample)
	if duration > b.threshold {
		b.slow++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of samples and stats.
func (b *RequestTraceBuffer) Snapshot() RequestTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return RequestTimeline{
		Samples:      b.samples.ordered(),
		SlowRequests: b.slow,
		ThresholdMs:  durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
