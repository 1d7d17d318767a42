// Package metrics provides the Prometheus collectors exported by the capture
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Capture groups the collectors for one capture service.
type Capture struct {
	Requests      *prometheus.CounterVec
	Records       *prometheus.CounterVec
	ModelFailures *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
}

// NewCapture registers the capture collectors with reg. Passing nil uses a
// private registry, which is what tests want.
func NewCapture(reg prometheus.Registerer) *Capture {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Capture{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense",
			Subsystem: "capture",
			Name:      "requests_total",
			Help:      "Capture calls by the path that produced the result.",
		}, []string{"source"}),
		Records: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense",
			Subsystem: "capture",
			Name:      "records_total",
			Help:      "Records emitted by category.",
		}, []string{"category"}),
		ModelFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense",
			Subsystem: "capture",
			Name:      "model_fallbacks_total",
			Help:      "Model extraction attempts that fell back to the rule parser, by reason.",
		}, []string{"reason"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "expense",
			Subsystem: "capture",
			Name:      "duration_seconds",
			Help:      "Capture latency by source.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2, 5},
		}, []string{"source"}),
	}
}
