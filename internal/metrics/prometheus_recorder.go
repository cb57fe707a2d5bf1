package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	passDuration   prom.Histogram
	markerOutcomes *prom.CounterVec
	passOutcomes   *prom.CounterVec
	cacheResults   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets its own private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		passDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "transclude",
			Name:      "pass_duration_seconds",
			Help:      "Duration of full resolution passes",
			Buckets:   prom.DefBuckets,
		}),
		markerOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "transclude",
			Name:      "marker_outcomes_total",
			Help:      "Embed marker terminal states per pass",
		}, []string{"outcome"}),
		passOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "transclude",
			Name:      "pass_outcomes_total",
			Help:      "Completed resolution passes by final status",
		}, []string{"outcome"}),
		cacheResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "transclude",
			Name:      "cache_results_total",
			Help:      "Render cache lookups by hit/miss",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.passDuration, pr.markerOutcomes, pr.passOutcomes, pr.cacheResults)
	return pr
}

func (pr *PrometheusRecorder) ObservePassDuration(d time.Duration) {
	pr.passDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncMarkerOutcome(outcome string) {
	pr.markerOutcomes.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) IncPassOutcome(outcome string) {
	pr.passOutcomes.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) IncCacheResult(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	pr.cacheResults.WithLabelValues(result).Inc()
}
