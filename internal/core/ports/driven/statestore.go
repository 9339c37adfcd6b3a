package driven

import (
	"context"

	"github.com/replikit/tap-covid19/internal/core/domain"
)

// StateStore persists replication state between runs. Save is called
// synchronously after every bookmark change; a failed save must abort
// the run.
type StateStore interface {
	// Load reads the persisted state. A store with no prior state
	// returns an empty, non-nil state.
	Load(ctx context.Context) (*domain.ReplicationState, error)

	// Save durably writes the full state.
	Save(ctx context.Context, state *domain.ReplicationState) error

	// Close releases resources.
	Close() error
}
