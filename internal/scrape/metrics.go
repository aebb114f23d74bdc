package scrape

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for Metrics.Results.
const (
	OutcomePrimary  = "primary"
	OutcomeFallback = "fallback"
	OutcomeFile     = "file"
	OutcomeFailed   = "failed"
)

// Metrics counts fetch attempts and scrape outcomes. A nil *Metrics records
// nothing.
type Metrics struct {
	Attempts *prometheus.CounterVec
	Blocked  prometheus.Counter
	Results  *prometheus.CounterVec
	Duration prometheus.Histogram
}

// NewMetrics registers the scrape collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webustler_fetch_attempts_total",
				Help: "Fetch attempts per phase and result.",
			},
			[]string{"phase", "result"}, // phase: primary, fallback; result: ok, error
		),
		Blocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "webustler_primary_blocked_total",
			Help: "Primary responses that matched a block signature.",
		}),
		Results: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webustler_scrapes_total",
				Help: "Completed scrape calls by outcome.",
			},
			[]string{"outcome"},
		),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "webustler_scrape_duration_seconds",
			Help:    "Wall time of scrape calls.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120, 300},
		}),
	}
}

func (m *Metrics) attempt(phase string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Attempts.WithLabelValues(phase, result).Inc()
}

func (m *Metrics) blocked() {
	if m == nil {
		return
	}
	m.Blocked.Inc()
}

func (m *Metrics) finish(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Results.WithLabelValues(outcome).Inc()
	m.Duration.Observe(seconds)
}
