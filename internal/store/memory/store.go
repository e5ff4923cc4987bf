// Package memory is an in-process store.Store, used in development and
// tests. State is lost on restart.
package memory

import (
	"context"
	"sync"

	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
)

// Store keeps documents in a map guarded by a RWMutex. Values are copied on
// the way in and out so callers never share backing arrays.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, apperrors.NotFound("document", key)
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Len reports the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
