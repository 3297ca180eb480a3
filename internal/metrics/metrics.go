// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProjectionsTotal counts projection calls by source and outcome
	// (ok, invalid_request, unknown_field, source_error).
	ProjectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prism_projections_total",
		Help: "Projection requests by source and outcome.",
	}, []string{"source", "outcome"})

	// ProjectionDuration observes end-to-end projection latency.
	ProjectionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prism_projection_duration_seconds",
		Help:    "Projection latency by source.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	// SourceUp reports the last health-check result per source (1 up, 0 down).
	SourceUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "prism_source_up",
		Help: "Whether the last health check of the source succeeded.",
	}, []string{"source"})
)
