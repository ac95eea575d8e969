package metrics

import "github.com/prometheus/client_golang/prometheus"

// Classifier and search pipeline metrics.
var (
	ClassifierRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "classifier_requests_total",
			Help:      "Total number of external classifier requests",
		},
		[]string{"provider", "model", "status"},
	)

	ClassifierRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "classifier_request_duration_seconds",
			Help:      "External classifier request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15},
		},
		[]string{"provider", "model"},
	)

	ClassifierErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "classifier_errors_total",
			Help:      "External classifier failures by kind",
		},
		[]string{"provider", "model", "error_type"},
	)

	InterpretationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "interpretations_total",
			Help:      "Interpreted queries by the tier that produced the criteria",
		},
		[]string{"source"}, // cache / static / classifier / heuristic
	)

	CriteriaCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "criteria_cache_total",
			Help:      "Criteria cache hits and misses per tier",
		},
		[]string{"tier", "result"}, // memory|shared, hit|miss
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Catalog retrieval duration per branch",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"branch"}, // venues / partners
	)

	RetrievalResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "retrieval_results",
			Help:      "Number of candidates returned per branch",
			Buckets:   []float64{0, 1, 10, 50, 100, 250, 500, 1000, 2000},
		},
		[]string{"branch"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers the pipeline metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(ClassifierRequestsTotal)
	prometheus.MustRegister(ClassifierRequestDuration)
	prometheus.MustRegister(ClassifierErrorsTotal)
	prometheus.MustRegister(InterpretationsTotal)
	prometheus.MustRegister(CriteriaCacheTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalResults)
	searchMetricsRegistered = true
}
