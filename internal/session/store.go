package session

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type Options[T any] struct {
	// TTL is the idle time after which a session is dropped.
	TTL time.Duration
	// New builds the value for a session seen for the first time.
	New func() T
}

// Store keeps one value per session id and evicts idle ones.
type Store[T any] struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
	newFn func() T
}

func NewStore[T any](opts Options[T]) *Store[T] {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}

	return &Store[T]{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
		newFn: opts.New,
	}
}

// Get returns the session value, creating it on first use. Every call
// extends the idle deadline.
func (s *Store[T]) Get(id string) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(id); ok {
		s.cache.Set(id, v, s.ttl)
		return v.(T)
	}

	var v T
	if s.newFn != nil {
		v = s.newFn()
	}
	s.cache.Set(id, v, s.ttl)
	return v
}

// Lookup returns an existing session without creating or touching it.
func (s *Store[T]) Lookup(id string) (T, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Put replaces the session value and resets its idle deadline.
func (s *Store[T]) Put(id string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(id, v, s.ttl)
}
