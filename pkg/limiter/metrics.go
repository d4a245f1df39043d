package limiter

// Metric names reported to a MetricsRecorder. Values of MetricLatency and
// MetricLockWait are in seconds.
const (
	MetricCall     = "ratelimit.call"
	MetricRejected = "ratelimit.rejected"
	MetricLatency  = "ratelimit.latency"
	MetricLockWait = "ratelimit.lock_wait"
)

// MetricsRecorder receives counters and observations from the limiter.
type MetricsRecorder interface {
	Add(name string, value float64, tags map[string]string)
	Observe(name string, value float64, tags map[string]string)
}

// NoOpMetricsRecorder is a placeholder that does nothing.
// It ensures we never have to check 'if r.recorder != nil' in our hot path.
type NoOpMetricsRecorder struct{}

func (n *NoOpMetricsRecorder) Add(name string, value float64, tags map[string]string)     {}
func (n *NoOpMetricsRecorder) Observe(name string, value float64, tags map[string]string) {}
