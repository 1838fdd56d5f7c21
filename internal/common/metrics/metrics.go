// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_completed_total",
			Help: "Total number of stage executions by outcome",
		},
		[]string{"stage", "outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of stage execution in seconds",
		},
		[]string{"stage"},
	)

	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_sessions_total",
			Help: "Total number of sessions by terminal state",
		},
		[]string{"terminal"},
	)

	ExtractionPath = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_extraction_path_total",
			Help: "Which extraction path served the request",
		},
		[]string{"path"},
	)
)

// Sink receives per-stage telemetry. Recording is fire-and-forget and must
// never block or fail the pipeline.
type Sink interface {
	Record(stage string, duration time.Duration, outcome string)
}

// PrometheusSink records stage telemetry into the package counters.
type PrometheusSink struct{}

func NewPrometheusSink() *PrometheusSink {
	return &PrometheusSink{}
}

func (s *PrometheusSink) Record(stage string, duration time.Duration, outcome string) {
	StageCompleted.WithLabelValues(stage, outcome).Inc()
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// NopSink discards telemetry; used in tests.
type NopSink struct{}

func (NopSink) Record(string, time.Duration, string) {}
