package limiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var epoch = time.Unix(1_700_000_000, 0)

func mustDescriptor(t *testing.T, args Args) Descriptor {
	t.Helper()
	d, err := NewDescriptor(args)
	require.NoError(t, err)
	return d
}

// newMiniredisStore starts an in-process Redis server and returns a
// RedisStore talking to it, plus the raw client for assertions.
func newMiniredisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr, client
}

// faultyStore wraps a Store and fails the operations named in errs.
type faultyStore struct {
	Store
	mu   sync.Mutex
	errs map[string]error
}

func newFaultyStore(inner Store, errs map[string]error) *faultyStore {
	return &faultyStore{Store: inner, errs: errs}
}

func (f *faultyStore) fail(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[op]
}

func (f *faultyStore) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := f.fail("SetNX"); err != nil {
		return false, err
	}
	return f.Store.SetNX(ctx, key, ttl)
}

func (f *faultyStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := f.fail("Expire"); err != nil {
		return err
	}
	return f.Store.Expire(ctx, key, ttl)
}

func (f *faultyStore) GetInt(ctx context.Context, key string) (int64, error) {
	if err := f.fail("GetInt"); err != nil {
		return 0, err
	}
	return f.Store.GetInt(ctx, key)
}

func (f *faultyStore) ZCount(ctx context.Context, key string) (int64, error) {
	if err := f.fail("ZCount"); err != nil {
		return 0, err
	}
	return f.Store.ZCount(ctx, key)
}

// MockRecorder captures metrics in memory for assertion
type MockRecorder struct {
	mu       sync.Mutex
	Counters map[string]float64
	Timings  map[string][]float64
	Tags     map[string][]map[string]string
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{
		Counters: make(map[string]float64),
		Timings:  make(map[string][]float64),
		Tags:     make(map[string][]map[string]string),
	}
}

func (m *MockRecorder) Add(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters[name] += value
	m.Tags[name] = append(m.Tags[name], tags)
}

func (m *MockRecorder) Observe(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timings[name] = append(m.Timings[name], value)
}
