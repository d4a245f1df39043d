package limiter

import (
	"context"
	"log/slog"
	"time"
)

// Limiter validates request descriptors, picks the strategy they name and
// runs the caller's work under it. It holds no per-key state; all
// coordination happens in the Store, so any number of Limiters in any number
// of processes can share one store.
type Limiter struct {
	fixed    Strategy
	sliding  Strategy
	logger   *slog.Logger
	recorder MetricsRecorder
}

// New builds a Limiter whose strategies share one Mutex over store.
func New(store Store, opts ...Option) *Limiter {
	o := buildOptions(opts)
	mutex := newMutex(store, o)
	return &Limiter{
		fixed:    NewFixedWindow(store, mutex),
		sliding:  newSlidingWindow(store, mutex, o),
		logger:   o.logger,
		recorder: o.recorder,
	}
}

// Strategy resolves kind to its implementation. Anything other than
// SlidingWindowKind resolves to the fixed window.
func (l *Limiter) Strategy(kind StrategyKind) Strategy {
	switch kind {
	case SlidingWindowKind:
		return l.sliding
	default:
		return l.fixed
	}
}

// Throttle runs work if the request described by args is within its limit.
//
// Invalid args yield a ConfigurationError before any store access. A request
// over its limit is not an error: the returned Result reports
// Success() == false and work is never invoked. Store errors are returned
// as-is, wrapped with context, alongside a zero Result whose Success is
// false.
func (l *Limiter) Throttle(ctx context.Context, args Args, work Work) (Result, error) {
	d, err := NewDescriptor(args)
	if err != nil {
		return Result{}, err
	}

	tags := map[string]string{"strategy": d.Strategy().String()}
	start := time.Now()
	res, err := Execute(ctx, l.Strategy(d.Strategy()), d, work)
	l.recorder.Add(MetricCall, 1, tags)
	l.recorder.Observe(MetricLatency, time.Since(start).Seconds(), tags)

	if err == nil && !res.Success() {
		l.recorder.Add(MetricRejected, 1, tags)
		l.logger.Debug("request over limit", "key", d.Key(), "limit", d.Limit(), "strategy", d.Strategy().String())
	}
	return res, err
}
