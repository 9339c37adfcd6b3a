package driving

import (
	"context"

	"github.com/replikit/tap-covid19/internal/core/domain"
)

// SyncRunner drives a full replication run over the selected streams.
type SyncRunner interface {
	// Run syncs every selected stream in declared order, resuming from
	// the currently-syncing marker when one is persisted.
	Run(ctx context.Context, catalog *domain.Catalog) (*RunSummary, error)
}

// RunSummary reports what a run delivered.
type RunSummary struct {
	// RunID identifies the run in logs.
	RunID string

	// FileRecords counts emitted file-stream records per stream.
	FileRecords map[string]int

	// RowRecords counts emitted row-stream records per stream.
	RowRecords map[string]int
}
