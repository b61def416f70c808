package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	// Evidence gathering latencies by source
	EvidenceLatency *prometheus.HistogramVec

	// Overall verdicts by document type and result
	Verdicts *prometheus.CounterVec

	// Per-field outcomes by strategy
	FieldOutcomes *prometheus.CounterVec

	// Full submission flow latency
	SubmitLatency prometheus.Histogram
}

// New creates a Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		EvidenceLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attest_verification_evidence_duration_seconds",
			Help:    "Duration of evidence gathering operations by source",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}), // source: "extraction", "facematch"

		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attest_verification_verdicts_total",
			Help: "Total verification verdicts by document type and result",
		}, []string{"document_type", "result"}),

		FieldOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attest_verification_field_outcomes_total",
			Help: "Per-field comparison outcomes by strategy",
		}, []string{"strategy", "outcome"}),

		SubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "attest_verification_submit_duration_seconds",
			Help:    "Duration of the full submission flow including evidence gathering",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

// ObserveEvidenceLatency records the duration of fetching evidence from a source.
func (m *Metrics) ObserveEvidenceLatency(source string, d time.Duration) {
	if m != nil {
		m.EvidenceLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementVerdict records an overall verdict.
func (m *Metrics) IncrementVerdict(documentType string, valid bool) {
	if m != nil {
		result := "rejected"
		if valid {
			result = "verified"
		}
		m.Verdicts.WithLabelValues(documentType, result).Inc()
	}
}

// IncrementFieldOutcome records one field comparison outcome.
func (m *Metrics) IncrementFieldOutcome(strategy, outcome string) {
	if m != nil {
		m.FieldOutcomes.WithLabelValues(strategy, outcome).Inc()
	}
}

// ObserveSubmitLatency records the total submission flow duration.
func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}
