// Package metrics exports limiter metrics to Prometheus.
package metrics

import (
	"github.com/manenim/excessflow/pkg/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "excessflow"

// Recorder implements limiter.MetricsRecorder with Prometheus collectors.
type Recorder struct {
	Calls      *prometheus.CounterVec
	Rejections *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	LockWait   prometheus.Histogram
}

var _ limiter.MetricsRecorder = (*Recorder)(nil)

// NewRecorder creates and registers all collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	return &Recorder{
		Calls: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Total number of throttled calls",
			},
			[]string{"strategy"},
		),
		Rejections: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Total number of calls rejected for exceeding their limit",
			},
			[]string{"strategy"},
		),
		Duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "throttle_duration_seconds",
				Help:      "Time spent in Throttle, including the caller's work",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		LockWait: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "lock_wait_seconds",
				Help:      "Time spent waiting for the per-key lock",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
	}
}

func (r *Recorder) Add(name string, value float64, tags map[string]string) {
	switch name {
	case limiter.MetricCall:
		r.Calls.WithLabelValues(tags["strategy"]).Add(value)
	case limiter.MetricRejected:
		r.Rejections.WithLabelValues(tags["strategy"]).Add(value)
	}
}

func (r *Recorder) Observe(name string, value float64, tags map[string]string) {
	switch name {
	case limiter.MetricLatency:
		r.Duration.WithLabelValues(tags["strategy"]).Observe(value)
	case limiter.MetricLockWait:
		r.LockWait.Observe(value)
	}
}
