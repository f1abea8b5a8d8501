package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	checkerServiceName = "checker"
)

type CheckerMetricsInterface interface {
	MustRegisterChecker()
	RecordCheck(mode string, success bool, duration float64)
	RecordCacheLookup(outcome string)
	RecordAnalysisCall(mode string, success bool, duration float64)
}

type NoopCheckerMetrics struct{}

func NewNoopCheckerMetrics() CheckerMetricsInterface {
	return &NoopCheckerMetrics{}
}

func (n *NoopCheckerMetrics) MustRegisterChecker()                                           {}
func (n *NoopCheckerMetrics) RecordCheck(mode string, success bool, duration float64)        {}
func (n *NoopCheckerMetrics) RecordCacheLookup(outcome string)                               {}
func (n *NoopCheckerMetrics) RecordAnalysisCall(mode string, success bool, duration float64) {}

type CheckerMetrics struct {
	*ServiceMetrics

	ChecksProcessedTotal *prometheus.CounterVec
	CheckDuration        *prometheus.HistogramVec

	CacheLookupsTotal *prometheus.CounterVec

	AnalysisCallsTotal   *prometheus.CounterVec
	AnalysisCallDuration *prometheus.HistogramVec
}

func NewCheckerMetrics() *CheckerMetrics {
	baseMetrics := NewServiceMetrics(checkerServiceName)

	checkerMetrics := &CheckerMetrics{
		ServiceMetrics: baseMetrics,

		ChecksProcessedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "checks_processed_total",
				Help:        "Total number of checks processed",
				ConstLabels: prometheus.Labels{LabelService: checkerServiceName},
			},
			[]string{LabelMode, LabelStatus},
		),

		CheckDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "check_duration_seconds",
				Help:        "Total time per check in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: prometheus.Labels{LabelService: checkerServiceName},
			},
			[]string{LabelMode},
		),

		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "report_cache_lookups_total",
				Help:        "Total number of report cache lookups by outcome",
				ConstLabels: prometheus.Labels{LabelService: checkerServiceName},
			},
			[]string{LabelOutcome},
		),

		AnalysisCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "analysis_calls_total",
				Help:        "Total number of calls to the analysis service",
				ConstLabels: prometheus.Labels{LabelService: checkerServiceName},
			},
			[]string{LabelMode, LabelStatus},
		),

		AnalysisCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "analysis_call_duration_seconds",
				Help:        "Analysis service call duration in seconds",
				Buckets:     []float64{1, 5, 10, 30, 60, 120, 300, 600},
				ConstLabels: prometheus.Labels{LabelService: checkerServiceName},
			},
			[]string{LabelMode},
		),
	}

	return checkerMetrics
}

func (m *CheckerMetrics) MustRegisterChecker() {
	m.ServiceMetrics.MustRegister()

	prometheus.MustRegister(
		m.ChecksProcessedTotal,
		m.CheckDuration,
		m.CacheLookupsTotal,
		m.AnalysisCallsTotal,
		m.AnalysisCallDuration,
	)
}

func (m *CheckerMetrics) RecordCheck(mode string, success bool, duration float64) {
	status := "success"
	if !success {
		status = "error"
	}

	m.ChecksProcessedTotal.WithLabelValues(mode, status).Inc()
	m.CheckDuration.WithLabelValues(mode).Observe(duration)
}

func (m *CheckerMetrics) RecordCacheLookup(outcome string) {
	m.CacheLookupsTotal.WithLabelValues(outcome).Inc()
}

func (m *CheckerMetrics) RecordAnalysisCall(mode string, success bool, duration float64) {
	status := "success"
	if !success {
		status = "error"
	}

	m.AnalysisCallsTotal.WithLabelValues(mode, status).Inc()
	m.AnalysisCallDuration.WithLabelValues(mode).Observe(duration)
}
