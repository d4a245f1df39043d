package limiter

// FailedExecution marks a Result whose work was skipped because the request
// was over its limit.
type FailedExecution struct{}

// Result wraps the outcome of a throttled call. Value returns exactly what
// was wrapped: the work's return value, or FailedExecution when rejected.
// The zero Result wraps nothing and is not a success.
type Result struct {
	value   any
	wrapped bool
}

func NewResult(v any) Result {
	return Result{value: v, wrapped: true}
}

func (r Result) Value() any {
	return r.value
}

// Success reports whether the work was executed.
func (r Result) Success() bool {
	if !r.wrapped {
		return false
	}
	switch r.value.(type) {
	case FailedExecution, *FailedExecution:
		return false
	default:
		return true
	}
}
