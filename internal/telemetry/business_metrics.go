package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics counts what the normalization pipeline decides. A nil
// *BusinessMetrics is valid and records nothing.
type BusinessMetrics struct {
	Normalizations *prometheus.CounterVec
	Corrections    *prometheus.CounterVec
	StreetChecks   *prometheus.CounterVec
	ParserStrategy *prometheus.CounterVec
}

// NewBusinessMetrics registers the pipeline counters on reg
func NewBusinessMetrics(reg prometheus.Registerer, namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "indirizzi"
	}
	factory := promauto.With(reg)

	return &BusinessMetrics{
		Normalizations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalizations_total",
			Help:      "Addresses normalized, by validity",
		}, []string{"valid"}),
		Corrections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrections_total",
			Help:      "Corrections emitted, by field and issue",
		}, []string{"field", "issue"}),
		StreetChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "street_checks_total",
			Help:      "Street existence checks, by outcome",
		}, []string{"outcome"}),
		ParserStrategy: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parser_strategy_total",
			Help:      "Parsed addresses, by parser strategy",
		}, []string{"strategy"}),
	}
}

func (m *BusinessMetrics) RecordNormalization(valid bool) {
	if m == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.Normalizations.WithLabelValues(label).Inc()
}

func (m *BusinessMetrics) RecordCorrection(field, issue string) {
	if m == nil {
		return
	}
	m.Corrections.WithLabelValues(field, issue).Inc()
}

func (m *BusinessMetrics) RecordStreetCheck(outcome string) {
	if m == nil {
		return
	}
	m.StreetChecks.WithLabelValues(outcome).Inc()
}

func (m *BusinessMetrics) RecordParse(strategy string) {
	if m == nil {
		return
	}
	m.ParserStrategy.WithLabelValues(strategy).Inc()
}
