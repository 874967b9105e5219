package store

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/yndnr/voltkv-go/internal/core/domain"
)

// Store is the process-wide typed keyspace. One instance is created at
// startup and lives for the process lifetime; tests construct isolated
// instances freely.
type Store struct {
	mu      sync.Mutex
	keys    map[string]any
	waiters *waitlist
	clock   func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithClock overrides the wall clock used for automatic stream IDs.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		keys:    make(map[string]any),
		waiters: newWaitlist(),
		clock:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// kindOf maps an internal value to its domain kind.
func kindOf(v any) domain.Kind {
	switch v.(type) {
	case []byte:
		return domain.KindString
	case *domain.List:
		return domain.KindList
	case *domain.Stream:
		return domain.KindStream
	case *domain.Set:
		return domain.KindSet
	default:
		return domain.KindNone
	}
}

// Kind returns the stored kind at key, or KindNone when absent.
func (s *Store) Kind(key string) domain.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return kindOf(s.keys[key])
}

// Set unconditionally stores val as a string, replacing any prior value
// or type at key.
func (s *Store) Set(key string, val []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = val
}

// Get returns the string value at key, or nil when the key is absent.
// It fails with WRONGTYPE when the key holds a non-string value.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.keys[key]
	if !ok {
		return nil, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, domain.ErrWrongType
	}
	return b, nil
}

// Incr interprets the string at key as a 64-bit integer and increments
// it by one. A missing key counts from zero.
func (s *Store) Incr(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if v, ok := s.keys[key]; ok {
		b, ok := v.([]byte)
		if !ok {
			return 0, domain.ErrWrongType
		}
		parsed, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return 0, domain.ErrNotInteger
		}
		n = parsed
	}

	if n == math.MaxInt64 {
		return 0, domain.ErrOverflow
	}
	n++
	s.keys[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

// Del removes each key if present and returns the count actually
// removed. Duplicate arguments count once per occurrence while the key
// still exists.
func (s *Store) Del(keys ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, key := range keys {
		if _, ok := s.keys[key]; ok {
			delete(s.keys, key)
			removed++
		}
	}
	return removed
}

// Exists returns the count of arguments that currently exist as keys,
// counting duplicates once per occurrence.
func (s *Store) Exists(keys ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, key := range keys {
		if _, ok := s.keys[key]; ok {
			count++
		}
	}
	return count
}

// Flush clears the entire keyspace synchronously. Registered waiters
// are untouched: their lists were already empty.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]any)
}

// Stats is a point-in-time summary of the keyspace, consumed by the
// metrics collector and debug output.
type Stats struct {
	StringKeys     int
	ListKeys       int
	StreamKeys     int
	SetKeys        int
	BlockedWaiters int
}

// Keys returns the total key count in the summary.
func (st Stats) Keys() int {
	return st.StringKeys + st.ListKeys + st.StreamKeys + st.SetKeys
}

// Stats returns a snapshot of keyspace and waitlist sizes.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	for _, v := range s.keys {
		switch kindOf(v) {
		case domain.KindString:
			st.StringKeys++
		case domain.KindList:
			st.ListKeys++
		case domain.KindStream:
			st.StreamKeys++
		case domain.KindSet:
			st.SetKeys++
		}
	}
	st.BlockedWaiters = s.waiters.total()
	return st
}
