package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the verification pipeline. A nil
// *Metrics is safe to call, so tests can pass nil without a registry.
type Metrics struct {
	VerificationsTotal *prometheus.CounterVec
	CaptureAttempts    *prometheus.HistogramVec
	VotesRecorded      prometheus.Counter
	DuplicateRaces     prometheus.Counter
	EnrollmentsTotal   prometheus.Counter
	CombinedScore      prometheus.Histogram
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verivote_verifications_total",
			Help: "Verification sessions by terminal outcome",
		}, []string{"outcome"}),
		CaptureAttempts: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verivote_capture_attempts",
			Help:    "Capture attempts consumed per modality phase",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		}, []string{"modality"}),
		VotesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verivote_votes_recorded_total",
			Help: "Votes durably committed to the ledger",
		}),
		DuplicateRaces: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verivote_duplicate_races_total",
			Help: "Accepted verifications that lost the atomic insert race",
		}),
		EnrollmentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verivote_enrollments_total",
			Help: "Completed biometric enrollments",
		}),
		CombinedScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "verivote_combined_score",
			Help:    "Fused verification scores across sessions",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
}

func (m *Metrics) RecordVerification(outcome string) {
	if m == nil {
		return
	}
	m.VerificationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCaptureAttempts(modality string, attempts int) {
	if m == nil {
		return
	}
	m.CaptureAttempts.WithLabelValues(modality).Observe(float64(attempts))
}

func (m *Metrics) RecordVote() {
	if m == nil {
		return
	}
	m.VotesRecorded.Inc()
}

func (m *Metrics) RecordDuplicateRace() {
	if m == nil {
		return
	}
	m.DuplicateRaces.Inc()
}

func (m *Metrics) RecordEnrollment() {
	if m == nil {
		return
	}
	m.EnrollmentsTotal.Inc()
}

func (m *Metrics) ObserveCombinedScore(score float64) {
	if m == nil {
		return
	}
	m.CombinedScore.Observe(score)
}
