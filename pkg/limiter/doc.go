// Package limiter provides a distributed rate limiter with fixed window and
// sliding window strategies over a shared Redis store.
//
// The primary entry point is Limiter.Throttle:
//
//	res, err := l.Throttle(ctx, limiter.Args{Key: "user_123", Limit: 10, TTL: 60}, work)
//
// work runs at most once, and only when the request is within its limit.
// The returned Result reports whether it ran (Success) and what it returned
// (Value). A request over its limit is not an error.
//
// # Request Descriptors
//
// Args carries the caller's input:
//
//   - Key: identifies the requests that share a limit (required)
//   - Limit: number of requests allowed per window (required, > 0)
//   - TTL: window length in seconds (required, > 0)
//   - Strategy: "fixed_window" (default) or "sliding_window"
//
// NewDescriptor validates Args into an immutable Descriptor. An unknown
// strategy name silently selects the fixed window. ParseArgs and DecodeArgs
// accept loosely typed input and reject unrecognized field names. All
// validation failures are ConfigurationErrors and happen before any store
// access.
//
// # Strategies
//
//   - FixedWindow keeps an integer counter whose expiry is armed by the first
//     request of a window. Cheap, but a burst across the window edge can let
//     up to 2×Limit requests through.
//   - SlidingWindow logs every accepted request in a sorted set scored by its
//     timestamp (10µs resolution) and counts only the trailing TTL. Exact, at
//     the cost of one sorted-set member per accepted request.
//   - NoOpStrategy accepts everything.
//
// # Concurrency
//
// Each strategy runs its read-modify-write under a Mutex keyed by the
// descriptor. The Mutex is a store entry created with SET NX EX and
// cleared with EXPIRE 0 once the critical section returns. Waiters spin with
// a fixed pause; there is no ordering among them. The lock's own TTL (one
// second by default) is the safety net against a crashed holder, so critical
// sections must stay well under it.
//
// # Storage Details
//
// For a key K, state lives under:
//
//	rl::counter::K   counter (fixed window) or sorted set (sliding window)
//	rl::lock::K      mutex
//
// # Backends
//
//   - RedisStore: go-redis backed, for production and multi-instance use.
//   - MemoryStore: an in-process map with lazy expiry and an injectable
//     Clock. Useful for tests and single-instance deployments.
//
// # Error Policy
//
// Store errors propagate to the caller wrapped with context. There is no
// retry and no fail-open or fail-closed policy; the caller decides.
//
// # Configuration
//
// Limiter and Mutex are configured using functional options:
//
//	l := limiter.New(store,
//		limiter.WithLogger(logger),
//		limiter.WithRecorder(recorder),
//		limiter.WithLockTTL(time.Second),
//	)
package limiter
