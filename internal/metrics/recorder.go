// Package metrics defines observability hooks for resolution passes and their
// supporting infrastructure, with a Prometheus-backed implementation.
package metrics

import "time"

// Recorder defines observability hooks for resolution passes. Implementations
// may forward to Prometheus, OpenTelemetry, etc. The NoopRecorder serves as
// the default when metrics are not configured.
type Recorder interface {
	// ObservePassDuration records how long a full resolution pass took.
	ObservePassDuration(d time.Duration)
	// IncMarkerOutcome counts one marker reaching a terminal state
	// (resolved, skipped, not_found, cycle, failed).
	IncMarkerOutcome(outcome string)
	// IncPassOutcome counts a completed pass (success|failed).
	IncPassOutcome(outcome string)
	// IncCacheResult counts a render cache lookup.
	IncCacheResult(hit bool)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObservePassDuration(time.Duration) {}
func (NoopRecorder) IncMarkerOutcome(string)           {}
func (NoopRecorder) IncPassOutcome(string)             {}
func (NoopRecorder) IncCacheResult(bool)               {}
