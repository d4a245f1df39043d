package limiter

import (
	"context"
	"time"
)

const (
	// CounterPrefix namespaces the quota bookkeeping key of a descriptor.
	CounterPrefix = "rl::counter::"
	// LockPrefix namespaces the mutex key of a descriptor.
	LockPrefix = "rl::lock::"

	// DefaultLockTTL is how long a lock lives in the store if its holder
	// never releases it.
	DefaultLockTTL = time.Second
	// DefaultSpinInterval is the pause between two lock acquisition attempts.
	DefaultSpinInterval = 10 * time.Microsecond

	// ticksPerSecond is the sliding window timestamp resolution (10µs).
	ticksPerSecond = 100_000
)

// StrategyKind names a windowing strategy.
type StrategyKind int

const (
	FixedWindowKind StrategyKind = iota
	SlidingWindowKind
)

// ParseStrategyKind maps a strategy name to its kind. Unknown and empty names
// fall back to FixedWindowKind.
func ParseStrategyKind(name string) StrategyKind {
	switch name {
	case "sliding_window":
		return SlidingWindowKind
	default:
		return FixedWindowKind
	}
}

func (k StrategyKind) String() string {
	switch k {
	case SlidingWindowKind:
		return "sliding_window"
	default:
		return "fixed_window"
	}
}

// Args is the caller-supplied request descriptor before validation.
type Args struct {
	Key      string `json:"key" validate:"required"`
	Limit    int64  `json:"limit" validate:"required,gt=0"`
	TTL      int64  `json:"ttl" validate:"required,gt=0"`
	Strategy string `json:"strategy,omitempty"`
}

// Descriptor is a validated request descriptor. The zero value is not usable;
// build one with NewDescriptor.
type Descriptor struct {
	key      string
	limit    int64
	ttl      int64
	strategy StrategyKind
}

func (d Descriptor) Key() string { return d.key }

func (d Descriptor) Limit() int64 { return d.limit }

// TTL is the window length.
func (d Descriptor) TTL() time.Duration { return time.Duration(d.ttl) * time.Second }

func (d Descriptor) Strategy() StrategyKind { return d.strategy }

func (d Descriptor) CounterKey() string { return CounterPrefix + d.key }

func (d Descriptor) LockKey() string { return LockPrefix + d.key }

// Strategy decides whether a request is within quota and records it if so.
type Strategy interface {
	WithinRateLimit(ctx context.Context, d Descriptor) (bool, error)
}

// Work is the unit of work executed when a request is accepted.
type Work func(ctx context.Context) (any, error)
