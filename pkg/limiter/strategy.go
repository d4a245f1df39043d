package limiter

import "context"

// NoOpStrategy accepts every request.
type NoOpStrategy struct{}

func (NoOpStrategy) WithinRateLimit(context.Context, Descriptor) (bool, error) {
	return true, nil
}

// Execute asks s whether d is within its limit and, if so, runs work once and
// wraps its return value. A rejected request is wrapped as FailedExecution
// and work is not called. An error from work is returned together with the
// result wrapping whatever value it produced. A strategy error yields the
// zero Result.
func Execute(ctx context.Context, s Strategy, d Descriptor, work Work) (Result, error) {
	accepted, err := s.WithinRateLimit(ctx, d)
	if err != nil {
		return Result{}, err
	}
	if !accepted {
		return NewResult(FailedExecution{}), nil
	}
	v, err := work(ctx)
	return NewResult(v), err
}
