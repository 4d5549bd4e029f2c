package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

const DefaultKey = "GEMINI_API_KEY"

// Backend persists named string slots.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Options struct {
	Backend Backend
	// Key names the persisted slot. Defaults to DefaultKey.
	Key string
	// Fallback is used by Resolve when nothing has been saved.
	Fallback string
}

// Store holds the user's API key in memory and mirrors it to a Backend.
type Store struct {
	mu       sync.RWMutex
	backend  Backend
	key      string
	fallback string
	value    string
}

func New(opts Options) (*Store, error) {
	if opts.Backend == nil {
		return nil, errors.New("credential backend is nil")
	}
	key := strings.TrimSpace(opts.Key)
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		backend:  opts.Backend,
		key:      key,
		fallback: strings.TrimSpace(opts.Fallback),
	}, nil
}

// Load reads the persisted slot. A missing slot leaves the value empty.
func (s *Store) Load(ctx context.Context) error {
	v, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.value = v
	} else {
		s.value = ""
	}
	return nil
}

// Save overwrites the persisted and in-memory value. An empty value removes
// the slot. The in-memory value is only updated once the backend write
// succeeded.
func (s *Store) Save(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.Clear(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Set(ctx, s.key, value); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	s.value = value
	return nil
}

// Clear removes the persisted slot so Resolve falls back again.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	s.value = ""
	return nil
}

func (s *Store) Value() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Resolve returns the saved key, or the fallback when none is saved.
func (s *Store) Resolve() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.value != "" {
		return s.value
	}
	return s.fallback
}

func (s *Store) HasFallback() bool {
	return s.fallback != ""
}

func (s *Store) Masked() string {
	return Mask(s.Value())
}

// Mask keeps the first and last four characters of long values.
func Mask(v string) string {
	if v == "" {
		return ""
	}
	runes := []rune(v)
	if len(runes) <= 8 {
		return strings.Repeat("•", len(runes))
	}
	return string(runes[:4]) + strings.Repeat("•", len(runes)-8) + string(runes[len(runes)-4:])
}
