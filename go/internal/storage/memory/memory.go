// Package memory provides an in-process slot. Values do not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/mcdev12/matchbook/go/internal/storage"
)

func init() {
	storage.MustRegister("memory", storage.DriverFunc(func(ctx context.Context, settings storage.Settings) (storage.Slot, error) {
		return New(), nil
	}))
}

// Slot keeps values in a map
type Slot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates an empty memory slot
func New() *Slot {
	return &Slot{values: make(map[string][]byte)}
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Has reports whether key currently holds a value
func (s *Slot) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

func (s *Slot) Close() error { return nil }
