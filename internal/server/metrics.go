package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/skosovsky/toolguard"
)

// Outcome label values of toolguard_validations_total.
const (
	outcomeAccepted    = "accepted"
	outcomeRejected    = "rejected"
	outcomeInvalidJSON = "invalid_json"
	outcomeError       = "error"
)

type metrics struct {
	validations *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	duration    prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		validations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolguard_validations_total",
				Help: "Tool call validations by outcome",
			},
			[]string{"outcome"},
		),
		diagnostics: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolguard_diagnostics_total",
				Help: "Diagnostics produced by severity",
			},
			[]string{"severity"},
		),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "toolguard_validation_duration_seconds",
			Help:    "Time spent decoding and validating one tool call",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
}

// middleware records one observation per Sanitize call.
func (m *metrics) middleware() toolguard.Middleware {
	return func(next toolguard.SanitizeFunc) toolguard.SanitizeFunc {
		return func(ctx context.Context, raw []byte) (toolguard.Result, error) {
			start := time.Now()
			res, err := next(ctx, raw)
			m.duration.Observe(time.Since(start).Seconds())
			switch {
			case err != nil && toolguard.IsClientError(err):
				m.validations.WithLabelValues(outcomeInvalidJSON).Inc()
			case err != nil:
				m.validations.WithLabelValues(outcomeError).Inc()
			case res.OK():
				m.validations.WithLabelValues(outcomeAccepted).Inc()
			default:
				m.validations.WithLabelValues(outcomeRejected).Inc()
			}
			for _, d := range res.Diagnostics {
				m.diagnostics.WithLabelValues(d.Severity.String()).Inc()
			}
			return res, err
		}
	}
}
