package limiter

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	requiredFields   = []string{"key", "limit", "ttl"}
	recognizedFields = []string{"key", "limit", "ttl", "strategy"}

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire names so errors match what callers send.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewDescriptor validates args and returns the immutable descriptor built
// from them. The strategy name is resolved with ParseStrategyKind, so an
// unknown name yields a fixed window descriptor rather than an error.
func NewDescriptor(args Args) (Descriptor, error) {
	if err := validate.Struct(args); err != nil {
		return Descriptor{}, translateValidationError(err)
	}
	return Descriptor{
		key:      args.Key,
		limit:    args.Limit,
		ttl:      args.TTL,
		strategy: ParseStrategyKind(args.Strategy),
	}, nil
}

func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConfigurationError{Reason: err.Error()}
	}
	fe := verrs[0]
	reason := "failed " + fe.Tag() + " check"
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "gt":
		reason = "must be greater than " + fe.Param()
	}
	return &ConfigurationError{Field: fe.Field(), Reason: reason}
}

// ParseArgs builds Args from loosely typed fields, as produced by decoding
// JSON or reading query parameters. Only key, limit, ttl and strategy are
// accepted; any other field, or a missing key, limit or ttl, is a
// ConfigurationError. Values are not range checked here; NewDescriptor does
// that.
func ParseArgs(fields map[string]any) (Args, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if !slices.Contains(recognizedFields, name) {
			return Args{}, &ConfigurationError{Field: name, Reason: "unrecognized field"}
		}
	}
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return Args{}, &ConfigurationError{Field: name, Reason: "is required"}
		}
	}

	var args Args
	if v := fields["key"]; v != nil {
		s, ok := v.(string)
		if !ok {
			return Args{}, &ConfigurationError{Field: "key", Reason: "must be a string"}
		}
		args.Key = s
	}
	for _, f := range []struct {
		name string
		dst  *int64
	}{{"limit", &args.Limit}, {"ttl", &args.TTL}} {
		v := fields[f.name]
		if v == nil {
			continue
		}
		n, ok := toInt64(v)
		if !ok {
			return Args{}, &ConfigurationError{Field: f.name, Reason: "must be an integer"}
		}
		*f.dst = n
	}
	switch v := fields["strategy"].(type) {
	case nil:
	case string:
		args.Strategy = v
	case StrategyKind:
		args.Strategy = v.String()
	default:
		return Args{}, &ConfigurationError{Field: "strategy", Reason: "must be a string"}
	}
	return args, nil
}

// DecodeArgs parses a JSON object into Args with the same field rules as
// ParseArgs.
func DecodeArgs(data []byte) (Args, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Args{}, &ConfigurationError{Reason: "malformed descriptor: " + err.Error()}
	}
	if fields == nil {
		return Args{}, &ConfigurationError{Reason: "descriptor must be a JSON object"}
	}
	return ParseArgs(fields)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
