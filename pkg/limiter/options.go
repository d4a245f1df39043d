package limiter

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type options struct {
	logger       *slog.Logger
	recorder     MetricsRecorder
	clock        Clock
	lockTTL      time.Duration
	spinInterval time.Duration
	newToken     func() string
}

func defaultOptions() options {
	return options{
		logger:       slog.New(slog.DiscardHandler),
		recorder:     &NoOpMetricsRecorder{},
		clock:        SystemClock{},
		lockTTL:      DefaultLockTTL,
		spinInterval: DefaultSpinInterval,
		newToken:     uuid.NewString,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Limiter or a Mutex.
type Option func(*options)

// WithLogger sets the structured logger. Output is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder injects a metrics backend.
func WithRecorder(r MetricsRecorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithClock sets the time source of the sliding window.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLockTTL sets how long a lock survives a holder that never releases it.
// Critical sections must stay well under this value.
func WithLockTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.lockTTL = d
		}
	}
}

// WithSpinInterval sets the pause between lock acquisition attempts.
func WithSpinInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.spinInterval = d
		}
	}
}

// WithTokenGenerator overrides how sliding window members are named. Tokens
// must be unique per request.
func WithTokenGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newToken = fn
		}
	}
}
