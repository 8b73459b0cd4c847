// Package memory provides the in-memory key-value store for respkv.
//
// It implements the shared store using concurrent-safe data structures
// with sharded locking. Expiry is lazy: an expired entry reads as absent
// but stays in the map until overwritten.
package memory

import (
	"time"

	"github.com/yndnr/respkv/internal/core/domain"
	"github.com/yndnr/respkv/pkg/cmap"
)

// Store maps keys to entries. One Store is created at startup and shared
// by every connection.
type Store struct {
	entries    *cmap.Map[domain.Entry]
	now        func() time.Time
	shardCount int
}

// Option configures the Store.
type Option func(*Store)

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithShards sets the number of lock shards (a power of 2).
func WithShards(n int) Option {
	return func(s *Store) {
		s.shardCount = n
	}
}

// New creates a new in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		now:        time.Now,
		shardCount: cmap.DefaultShardCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.entries = cmap.NewWithShards[domain.Entry](s.shardCount)
	return s
}

// Set stores value under key, replacing any previous entry. A positive
// ttl makes the entry expire ttl after now; otherwise it never expires.
func (s *Store) Set(key, value string, ttl time.Duration) {
	s.entries.Set(key, domain.NewEntry(value, ttl, s.now()))
}

// Get returns the value stored under key. Missing and expired entries
// both report false; an expired entry is left in place.
func (s *Store) Get(key string) (string, bool) {
	entry, ok := s.entries.Get(key)
	if !ok {
		return "", false
	}

	if entry.IsExpired(s.now()) {
		return "", false
	}

	return entry.Value, true
}

// Len returns the number of stored entries, expired ones included.
func (s *Store) Len() int {
	return s.entries.Count()
}
