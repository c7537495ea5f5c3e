package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the
// recommendation engine.
type Metrics struct {
	RecommendDuration prometheus.Histogram
	CandidatesRanked  prometheus.Counter
	EmbedErrors       prometheus.Counter

	// Weather warm-up metrics.
	WeatherFetches *prometheus.CounterVec // label: outcome={success,error,simulated,skipped_fresh}

	// Friction metrics.
	FrictionMultiplier prometheus.Histogram
	OverridesApplied   prometheus.Counter
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecommendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lcast",
			Name:      "recommend_duration_seconds",
			Help:      "Duration of a complete re-ranking call, warm-up included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CandidatesRanked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lcast",
			Name:      "candidates_ranked_total",
			Help:      "Total candidate POIs scored and returned.",
		}),
		EmbedErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lcast",
			Name:      "embed_errors_total",
			Help:      "Per-candidate embedding failures handled with a fallback score.",
		}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lcast",
			Name:      "weather_fetches_total",
			Help:      "Weather warm-up bucket outcomes.",
		}, []string{"outcome"}),
		FrictionMultiplier: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lcast",
			Name:      "friction_multiplier",
			Help:      "Distribution of applied friction multipliers.",
			Buckets:   []float64{0.1, 0.25, 0.4, 0.5, 0.6, 0.75, 0.9, 0.95, 1.0},
		}),
		OverridesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lcast",
			Name:      "overrides_applied_total",
			Help:      "Times a manual crisis override replaced the automatic policy.",
		}),
	}

	prometheus.MustRegister(
		m.RecommendDuration,
		m.CandidatesRanked,
		m.EmbedErrors,
		m.WeatherFetches,
		m.FrictionMultiplier,
		m.OverridesApplied,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecommendDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "lcast", Name: "recommend_duration_seconds"}),
		CandidatesRanked:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lcast", Name: "candidates_ranked_total"}),
		EmbedErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lcast", Name: "embed_errors_total"}),
		WeatherFetches:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "lcast", Name: "weather_fetches_total"}, []string{"outcome"}),
		FrictionMultiplier: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "lcast", Name: "friction_multiplier"}),
		OverridesApplied:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lcast", Name: "overrides_applied_total"}),
	}
}
