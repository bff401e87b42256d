// Package memorystore is an in-memory store.Store used by tests.
package memorystore

import (
	"context"
	"sync"

	"github.com/medicoin/imaging-client/internal/serviceerr"
	"github.com/medicoin/imaging-client/internal/store"
)

type StoreOption func(*Store)

func WithValue(key, value string) StoreOption {
	return func(s *Store) { s.values[key] = value }
}

func WithGetError(err error) StoreOption {
	return func(s *Store) { s.getErr = err }
}

func WithSetError(err error) StoreOption {
	return func(s *Store) { s.setErr = err }
}

type Store struct {
	mu     sync.Mutex
	values map[string]string

	getErr, setErr error
}

var _ = store.Store(&Store{})

func New(opts ...StoreOption) *Store {
	s := &Store{values: make(map[string]string)}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return "", s.getErr
	}

	value, ok := s.values[key]
	if !ok {
		return "", serviceerr.ErrNotFound
	}

	return value, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value

	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)

	return nil
}
