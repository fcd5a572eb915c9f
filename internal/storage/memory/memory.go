package memory

import (
	"context"
	"sync"

	"fintrack/internal/storage"
)

// Store keeps the blob in process memory. It backs tests and demo runs.
type Store struct {
	mu     sync.Mutex
	data   []byte
	writes int
	// Fail, when set, is returned by the next Read and Write calls.
	Fail error
}

var _ storage.Backend = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// NewWithData returns a store that already holds data.
func NewWithData(data []byte) *Store {
	return &Store{data: append([]byte(nil), data...)}
}

func (s *Store) Read(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	if s.data == nil {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), s.data...), nil
}

func (s *Store) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.data = append([]byte(nil), data...)
	s.writes++
	return nil
}

// Writes returns how many successful writes happened.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
