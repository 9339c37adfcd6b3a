// Package memory provides an in-memory replication state store for
// tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.StateStore = (*Store)(nil)

// Store keeps replication state in memory. Each Save stores a deep
// copy, so later mutations by the caller do not leak in.
type Store struct {
	mu    sync.Mutex
	state *domain.ReplicationState

	// Saves counts successful writes, for assertions on flush
	// frequency.
	Saves int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load returns a copy of the stored state, or an empty state.
func (s *Store) Load(_ context.Context) (*domain.ReplicationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return domain.NewReplicationState(), nil
	}
	return copyState(s.state), nil
}

// Save stores a copy of the state.
func (s *Store) Save(_ context.Context, state *domain.ReplicationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = copyState(state)
	s.Saves++
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func copyState(state *domain.ReplicationState) *domain.ReplicationState {
	out := domain.NewReplicationState()
	out.CurrentlySyncing = state.CurrentlySyncing
	for k, v := range state.Bookmarks {
		out.Bookmarks[k] = v
	}
	return out
}
