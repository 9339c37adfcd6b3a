package driven

import (
	"time"

	"github.com/replikit/tap-covid19/internal/core/domain"
)

// MessageWriter delivers the output record stream to downstream
// consumers. All write failures are fatal for the run: records already
// accepted must not be silently followed by a gap.
type MessageWriter interface {
	// WriteSchema announces a stream's schema. Emitted once per stream
	// before its first record.
	WriteSchema(stream string, schema map[string]any, keyProperties []string) error

	// WriteRecord emits one data record. version is non-zero only for
	// full-replace streams, tagging the record with the run's
	// activate-version token.
	WriteRecord(stream string, record domain.Record, timeExtracted time.Time, version int64) error

	// WriteActivateVersion signals a full-replace boundary: consumers
	// discard prior records of stream not re-sent under version.
	WriteActivateVersion(stream string, version int64) error

	// WriteState mirrors the replication state onto the output stream.
	WriteState(state *domain.ReplicationState) error
}
