package engine

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-click/click/pkg/errors"
)

const (
	runtimeSampleIntervalDefault = 5 * time.Second
	runtimeSampleWindowDefault   = 60 * time.Second
	runtimeSampleMinInterval     = time.Second
	runtimeSampleMaxSamples      = 120
)

// RuntimeSample is one reading of process memory and request load.
type RuntimeSample struct {
	Timestamp   int64  `json:"ts"`
	HeapAlloc   uint64 `json:"heapAlloc"`
	HeapInuse   uint64 `json:"heapInuse"`
	NumGC       uint32 `json:"numGC"`
	LastPauseNs uint64 `json:"lastPauseNs"`
	Goroutines  int    `json:"goroutines"`
	InFlight    int64  `json:"inFlight"`
	Served      uint64 `json:"served"`
	Failed      uint64 `json:"failed"`
}

// serverLoad counts requests handled by an engine.
type serverLoad struct {
	inFlight atomic.Int64
	served   atomic.Uint64
	failed   atomic.Uint64
}

func (l *serverLoad) begin() { l.inFlight.Add(1) }

func (l *serverLoad) end(status int) {
	l.inFlight.Add(-1)
	l.served.Add(1)
	if status >= 500 {
		l.failed.Add(1)
	}
}

// RuntimeSampleBuffer keeps the samples of the configured window.
type RuntimeSampleBuffer struct {
	mu       sync.RWMutex
	samples  ring[RuntimeSample]
	interval time.Duration
	window   time.Duration
}

// NewRuntimeSampleBuffer sizes the buffer to hold window/interval samples,
// capped at runtimeSampleMaxSamples.
func NewRuntimeSampleBuffer(window, interval time.Duration) *RuntimeSampleBuffer {
	interval, window = clampSampling(interval, window)
	n := min(max(int(window/interval), 1), runtimeSampleMaxSamples)
	return &RuntimeSampleBuffer{
		samples:  newRing[RuntimeSample](n),
		interval: interval,
		window:   time.Duration(n) * interval,
	}
}

func (b *RuntimeSampleBuffer) Interval() time.Duration { return b.interval }

// Window is the history actually covered, which may be shorter than asked.
func (b *RuntimeSampleBuffer) Window() time.Duration { return b.window }

func (b *RuntimeSampleBuffer) Add(s RuntimeSample) {
	b.mu.Lock()
	b.samples.push(s)
	b.mu.Unlock()
}

// Snapshot returns the samples oldest first.
func (b *RuntimeSampleBuffer) Snapshot() []RuntimeSample {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.samples.ordered()
}

// clampSampling applies defaults and keeps the window at least one interval.
func clampSampling(interval, window time.Duration) (time.Duration, time.Duration) {
	if interval <= 0 {
		interval = runtimeSampleIntervalDefault
	}
	interval = max(interval, runtimeSampleMinInterval)
	if window <= 0 {
		window = runtimeSampleWindowDefault
	}
	return interval, max(window, interval)
}

func runtimeSampleConfig(config *DiagnosticsConfig) (time.Duration, time.Duration) {
	if config == nil {
		return 0, 0
	}
	return clampSampling(config.RuntimeSampleInterval, config.RuntimeSampleWindow)
}

func readRuntimeSample(load *serverLoad) RuntimeSample {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s := RuntimeSample{
		Timestamp:  time.Now().UnixMilli(),
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
	if m.NumGC > 0 {
		s.LastPauseNs = m.PauseNs[(m.NumGC+255)%256]
	}
	if load != nil {
		s.InFlight = load.inFlight.Load()
		s.Served = load.served.Load()
		s.Failed = load.failed.Load()
	}
	return s
}

type runtimeSampler struct {
	once sync.Once
	done chan struct{}
}

// startRuntimeSampler takes a sample now and then one per interval until
// stop. load may be nil.
func startRuntimeSampler(buf *RuntimeSampleBuffer, interval time.Duration, load *serverLoad) *runtimeSampler {
	interval, _ = clampSampling(interval, 0)
	s := &runtimeSampler{done: make(chan struct{})}
	take := func() {
		defer errors.Recover("engine.runtimeSampler", nil)
		buf.Add(readRuntimeSample(load))
	}
	take()

	go func() {
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				take()
			case <-s.done:
				return
			}
		}
	}()
	return s
}

func (s *runtimeSampler) stop() {
	s.once.Do(func() { close(s.done) })
}
