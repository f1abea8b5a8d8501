package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	apiServiceName = "api"
)

type APIMetrics struct {
	*ServiceMetrics

	ChecksCreatedTotal    *prometheus.CounterVec
	CheckCreationDuration *prometheus.HistogramVec

	ReportsSubmittedTotal *prometheus.CounterVec
}

func NewAPIMetrics() *APIMetrics {
	baseMetrics := NewServiceMetrics(apiServiceName)

	apiMetrics := &APIMetrics{
		ServiceMetrics: baseMetrics,

		ChecksCreatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "checks_created_total",
				Help:        "Total number of scam checks created",
				ConstLabels: prometheus.Labels{LabelService: apiServiceName},
			},
			[]string{LabelMode, LabelStatus},
		),

		CheckCreationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "check_creation_duration_seconds",
				Help:        "Time taken to create a check in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: prometheus.Labels{LabelService: apiServiceName},
			},
			[]string{},
		),

		ReportsSubmittedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "scam_reports_submitted_total",
				Help:        "Total number of user scam reports submitted",
				ConstLabels: prometheus.Labels{LabelService: apiServiceName},
			},
			[]string{LabelStatus},
		),
	}

	return apiMetrics
}

func (m *APIMetrics) MustRegisterAPI() {
	m.ServiceMetrics.MustRegister()

	prometheus.MustRegister(
		m.ChecksCreatedTotal,
		m.CheckCreationDuration,
		m.ReportsSubmittedTotal,
	)
}

func (m *APIMetrics) RecordCheckCreation(mode string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ChecksCreatedTotal.WithLabelValues(mode, status).Inc()
	m.CheckCreationDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *APIMetrics) RecordReportSubmission(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ReportsSubmittedTotal.WithLabelValues(status).Inc()
}
