// Package pipelinemetrics exposes the pipeline's operational metrics behind a
// narrow interface so services and handlers stay testable with the no-op
// implementation.
package pipelinemetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records handler and pipeline activity.
type PipelineMetrics interface {
	RecordHandlerAttempt(ctx context.Context, handlerName string)
	RecordHandlerSuccess(ctx context.Context, handlerName string)
	RecordHandlerFailure(ctx context.Context, handlerName string)
	RecordHandlerDuration(ctx context.Context, handlerName string, duration time.Duration)

	RecordStageAdvance(ctx context.Context, entityType, stage string)
	RecordRejection(ctx context.Context, entityType, reason string)

	RecordFetchAttempt(ctx context.Context, platform string)
	RecordFetchNotFound(ctx context.Context, platform string)
	RecordFetchThrottled(ctx context.Context, platform string)
	RecordFetchDeduplicated(ctx context.Context, fetchType string)
}

// PrometheusMetrics implements PipelineMetrics on a prometheus registry.
type PrometheusMetrics struct {
	handlerAttempts   *prometheus.CounterVec
	handlerSuccesses  *prometheus.CounterVec
	handlerFailures   *prometheus.CounterVec
	handlerDurations  *prometheus.HistogramVec
	stageAdvances     *prometheus.CounterVec
	rejections        *prometheus.CounterVec
	fetchAttempts     *prometheus.CounterVec
	fetchNotFound     *prometheus.CounterVec
	fetchThrottled    *prometheus.CounterVec
	fetchDeduplicated *prometheus.CounterVec
}

// NewPrometheusMetrics builds and registers the pipeline's collectors.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		handlerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otr_handler_attempts_total",
			Help: "Message handler invocations.",
		}, []string{"handler"}),
		handlerSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otr_handler_successes_total",
			Help: "Message handler successes.",
		}, []string{"handler"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otr_handler_failures_total",
			Help: "Message handler failures (redelivered by the transport).",
		}, []string{"handler"}),
		handlerDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "otr_handler_duration_seconds",
			Help:    "Message handler duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
		stageAdvances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otr_processing_stage_advances_total",
			Help: "Processing-status transitions by entity type and stage reached.",
		}, []string{"entity_type", "stage"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otr_automation_rejections_total",
			Help: "Automation-check rejections by entity type and reason.",
		}, []string{"entity_type", "reason"}),
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otr_fetch_attempts_total",
			Help: "Upstream fetch attempts by platform.",
		}, []string{"platform"}),
		fetchNotFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otr_fetch_not_found_total",
			Help: "Upstream fetches that returned not-found.",
		}, []string{"platform"}),
		fetchThrottled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otr_fetch_throttled_total",
			Help: "Upstream fetches delayed by the rate limiter.",
		}, []string{"platform"}),
		fetchDeduplicated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otr_fetch_deduplicated_total",
			Help: "Fetches skipped because another worker holds the reservation.",
		}, []string{"fetch_type"}),
	}
	reg.MustRegister(
		m.handlerAttempts, m.handlerSuccesses, m.handlerFailures, m.handlerDurations,
		m.stageAdvances, m.rejections,
		m.fetchAttempts, m.fetchNotFound, m.fetchThrottled, m.fetchDeduplicated,
	)
	return m
}

func (m *PrometheusMetrics) RecordHandlerAttempt(_ context.Context, handlerName string) {
	m.handlerAttempts.WithLabelValues(handlerName).Inc()
}

func (m *PrometheusMetrics) RecordHandlerSuccess(_ context.Context, handlerName string) {
	m.handlerSuccesses.WithLabelValues(handlerName).Inc()
}

func (m *PrometheusMetrics) RecordHandlerFailure(_ context.Context, handlerName string) {
	m.handlerFailures.WithLabelValues(handlerName).Inc()
}

func (m *PrometheusMetrics) RecordHandlerDuration(_ context.Context, handlerName string, duration time.Duration) {
	m.handlerDurations.WithLabelValues(handlerName).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordStageAdvance(_ context.Context, entityType, stage string) {
	m.stageAdvances.WithLabelValues(entityType, stage).Inc()
}

func (m *PrometheusMetrics) RecordRejection(_ context.Context, entityType, reason string) {
	m.rejections.WithLabelValues(entityType, reason).Inc()
}

func (m *PrometheusMetrics) RecordFetchAttempt(_ context.Context, platform string) {
	m.fetchAttempts.WithLabelValues(platform).Inc()
}

func (m *PrometheusMetrics) RecordFetchNotFound(_ context.Context, platform string) {
	m.fetchNotFound.WithLabelValues(platform).Inc()
}

func (m *PrometheusMetrics) RecordFetchThrottled(_ context.Context, platform string) {
	m.fetchThrottled.WithLabelValues(platform).Inc()
}

func (m *PrometheusMetrics) RecordFetchDeduplicated(_ context.Context, fetchType string) {
	m.fetchDeduplicated.WithLabelValues(fetchType).Inc()
}

// NoOpMetrics discards everything. Used in tests.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordHandlerAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordHandlerSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordHandlerFailure(context.Context, string)                 {}
func (NoOpMetrics) RecordHandlerDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordStageAdvance(context.Context, string, string)           {}
func (NoOpMetrics) RecordRejection(context.Context, string, string)              {}
func (NoOpMetrics) RecordFetchAttempt(context.Context, string)                   {}
func (NoOpMetrics) RecordFetchNotFound(context.Context, string)                  {}
func (NoOpMetrics) RecordFetchThrottled(context.Context, string)                 {}
func (NoOpMetrics) RecordFetchDeduplicated(context.Context, string)              {}
