package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "crossnav"
)

var (
	probeDurationBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5}

	// Liveness probe metrics
	ProbeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "probe_duration_seconds",
		Help:      "Time taken for an application liveness probe to complete.",
		Buckets:   probeDurationBuckets,
	}, []string{"app_id"})

	ProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "probes_total",
		Help:      "Count of liveness probes by resulting state.",
	}, []string{"app_id", "state"})

	AppHealthState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_health_state",
		Help:      "Current health state per application (1 for the active state).",
	}, []string{"app_id", "state"})

	// Cross-app navigation metrics
	NavigationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "navigations_total",
		Help:      "Count of cross-app navigation requests by outcome.",
	}, []string{"target_app_id", "outcome"})

	ContextDecodeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "context_decode_failures_total",
		Help:      "Count of inbound navigation contexts that failed to decode.",
	})

	// Data-flow tracker metrics
	DataFlowLinks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataflow_links",
		Help:      "Number of tracked data-flow links by status.",
	}, []string{"status"})
)
