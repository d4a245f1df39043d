package limiter

import "fmt"

// ErrConfiguration is a sentinel matching every ConfigurationError:
//
//	errors.Is(err, limiter.ErrConfiguration)
var ErrConfiguration = &ConfigurationError{}

// ConfigurationError is returned when a request descriptor carries an
// unrecognized field, misses a required one or holds an invalid value.
// It is raised before any store interaction.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid throttle arguments: %s", e.Reason)
	}
	return fmt.Sprintf("invalid throttle arguments: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(tgt error) bool {
	_, ok := tgt.(*ConfigurationError)
	return ok
}
