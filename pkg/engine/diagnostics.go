package engine

import "time"

// DiagnosticsConfig controls request tracing and runtime sampling.
type DiagnosticsConfig struct {
	// TraceSamples is the number of recent requests kept. Defaults to 240.
	TraceSamples int
	// SlowRequestThreshold counts requests taking longer as slow.
	// Defaults to 250ms.
	SlowRequestThreshold time.Duration
	// RuntimeSampleInterval enables runtime memory sampling when positive.
	RuntimeSampleInterval time.Duration
	// RuntimeSampleWindow is the history covered by runtime samples.
	RuntimeSampleWindow time.Duration
	// DebugServerAddr enables the HTTP debug server on the given address,
	// e.g. "localhost:9999". Empty disables it.
	DebugServerAddr string
}

// DefaultDiagnosticsConfig returns a DiagnosticsConfig with sensible defaults.
func DefaultDiagnosticsConfig() *DiagnosticsConfig {
	return &DiagnosticsConfig{
		TraceSamples:          requestTraceSamplesDefault,
		SlowRequestThreshold:  defaultSlowRequestThreshold,
		RuntimeSampleInterval: runtimeSampleIntervalDefault,
		RuntimeSampleWindow:   runtimeSampleWindowDefault,
	}
}
