package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "schememitra"

// Explanation outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeNotConfigured = "not_configured"
	OutcomeError         = "error"
	OutcomeEmpty         = "empty"
)

var (
	ExplanationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "explanations_total",
		Help:      "Explanations generated, by provider and outcome.",
	}, []string{"provider", "outcome"})

	ExplanationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "explanation_duration_seconds",
		Help:      "Time spent waiting for the language model.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"provider"})

	FilterResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "filter_results",
		Help:      "Number of schemes left after filtering.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
	})

	CatalogSchemes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_schemes",
		Help:      "Number of schemes in the loaded catalog.",
	})
)
