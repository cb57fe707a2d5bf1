package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_IsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObservePassDuration(time.Second)
	r.IncMarkerOutcome("resolved")
	r.IncPassOutcome("success")
	r.IncCacheResult(true)
}

func TestPrometheusRecorder_Counters(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncMarkerOutcome("resolved")
	r.IncMarkerOutcome("resolved")
	r.IncMarkerOutcome("cycle")
	r.IncPassOutcome("success")
	r.IncCacheResult(true)
	r.IncCacheResult(false)
	r.ObservePassDuration(50 * time.Millisecond)

	require.Equal(t, float64(2), testutil.ToFloat64(r.markerOutcomes.WithLabelValues("resolved")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.markerOutcomes.WithLabelValues("cycle")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.passOutcomes.WithLabelValues("success")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.cacheResults.WithLabelValues("hit")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.cacheResults.WithLabelValues("miss")))
}

func TestPrometheusRecorder_NilRegistry(t *testing.T) {
	require.NotPanics(t, func() {
		r := NewPrometheusRecorder(nil)
		r.IncMarkerOutcome("skipped")
	})
}
