package driven

import "github.com/replikit/tap-covid19/internal/core/domain"

// RowNormaliser maps one raw parsed row into its canonical shape.
// Implementations are pure: they never mutate the input row, and they
// return either exactly one record or (nil, nil) to drop the row.
// A non-nil error is fatal for the stream's sync.
type RowNormaliser interface {
	// Streams returns the row-stream names this normaliser handles.
	Streams() []string

	// Normalise transforms a provenance-tagged raw row. Returning a
	// nil record with a nil error drops the row.
	Normalise(stream string, row domain.RawRow) (domain.Record, error)
}

// NormaliserRegistry resolves row-stream names to normalisers. Streams
// without a registered normaliser pass rows through unchanged.
type NormaliserRegistry interface {
	// Normalise dispatches to the registered normaliser for stream, or
	// passes the row through when none is registered.
	Normalise(stream string, row domain.RawRow) (domain.Record, error)

	// Register adds a normaliser for each of its declared streams.
	Register(n RowNormaliser)
}
