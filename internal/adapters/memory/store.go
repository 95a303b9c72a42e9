package memory

import (
	"context"
	"sync"

	"github.com/dcpatrol/patrol/internal/domain/ports"
)

// Store is an in-memory document store used for tests and ephemeral runs
type Store struct {
	mu      sync.RWMutex
	docs    map[string][]byte
	saveErr error
	loadErr error
}

var _ ports.DocumentStore = (*Store)(nil)

// NewStore creates a new in-memory document store
func NewStore() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}
	doc, ok := s.docs[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

func (s *Store) Save(ctx context.Context, key string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	s.docs[key] = cp
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

// FailSaves makes every subsequent Save return err; nil restores normal
// operation. Used by tests exercising persistence-failure surfacing.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// FailLoads makes every subsequent Load return err; nil restores normal
// operation
func (s *Store) FailLoads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}
