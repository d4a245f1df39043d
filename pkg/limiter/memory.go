package limiter

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

var errWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

type entry struct {
	counter  int64
	zset     map[string]int64 // member -> score; nil for counters
	expireAt time.Time        // zero means no expiry
}

// MemoryStore is an in-process Store.
//
// It is safe for concurrent use by multiple goroutines, but its state is local
// to the process and is not shared across replicas. Use RedisStore when you
// need a single global limit across multiple instances. Expired keys are
// dropped lazily, on access.
type MemoryStore struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]*entry
}

// NewMemoryStore constructs a MemoryStore with empty state. A nil clock means
// SystemClock.
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MemoryStore{
		clock:   clock,
		entries: make(map[string]*entry),
	}
}

// live returns the entry at key, evicting it first if it has expired.
// Callers hold m.mu.
func (m *MemoryStore) live(key string) (*entry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expireAt.IsZero() && !m.clock.Now().Before(e.expireAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e, true
}

func (m *MemoryStore) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.live(key); exists {
		return false, nil
	}
	e := &entry{counter: 1}
	if ttl > 0 {
		e.expireAt = m.clock.Now().Add(ttl)
	}
	m.entries[key] = e
	return true, nil
}

func (m *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.live(key)
	if !exists {
		return nil
	}
	if ttl <= 0 {
		delete(m.entries, key)
		return nil
	}
	e.expireAt = m.clock.Now().Add(ttl)
	return nil
}

func (m *MemoryStore) GetInt(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.live(key)
	if !exists {
		return 0, nil
	}
	if e.zset != nil {
		return 0, errWrongType
	}
	return e.counter, nil
}

func (m *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.live(key)
	if !exists {
		e = &entry{}
		m.entries[key] = e
	}
	if e.zset != nil {
		return 0, errWrongType
	}
	e.counter++
	return e.counter, nil
}

func (m *MemoryStore) ZAdd(ctx context.Context, key string, score int64, member string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.live(key)
	if !exists {
		e = &entry{zset: make(map[string]int64)}
		m.entries[key] = e
	}
	if e.zset == nil {
		return errWrongType
	}
	e.zset[member] = score
	return nil
}

func (m *MemoryStore) ZRemRangeByScore(ctx context.Context, key string, below int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.live(key)
	if !exists {
		return nil
	}
	if e.zset == nil {
		return errWrongType
	}
	for member, score := range e.zset {
		if score < below {
			delete(e.zset, member)
		}
	}
	// Redis drops a sorted set once its last member is gone.
	if len(e.zset) == 0 {
		delete(m.entries, key)
	}
	return nil
}

func (m *MemoryStore) ZCount(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.live(key)
	if !exists {
		return 0, nil
	}
	if e.zset == nil {
		return 0, errWrongType
	}
	return int64(len(e.zset)), nil
}

// TTL returns the remaining time to live of key. ok is false when the key is
// absent; a zero duration with ok true means the key never expires.
func (m *MemoryStore) TTL(key string) (ttl time.Duration, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.live(key)
	if !exists {
		return 0, false
	}
	if e.expireAt.IsZero() {
		return 0, true
	}
	return e.expireAt.Sub(m.clock.Now()), true
}

// ZScores returns the scores of the sorted set at key in ascending order.
func (m *MemoryStore) ZScores(key string) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.live(key)
	if !exists || e.zset == nil {
		return nil
	}
	scores := make([]int64, 0, len(e.zset))
	for _, score := range e.zset {
		scores = append(scores, score)
	}
	slices.Sort(scores)
	return scores
}
