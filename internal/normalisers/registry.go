// Package normalisers provides the per-source row normalisers and the
// registry that dispatches row-stream names to them.
//
// Each normaliser is a pure function over a provenance-tagged raw row:
// it returns exactly one canonical record, or nil to drop the row.
// Normalisers are registered at startup; streams without one pass
// their rows through unchanged.
package normalisers

import (
	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/core/ports/driven"
	"github.com/replikit/tap-covid19/internal/normalisers/covidtracking"
	"github.com/replikit/tap-covid19/internal/normalisers/eudaily"
	"github.com/replikit/tap-covid19/internal/normalisers/jhcsse"
	"github.com/replikit/tap-covid19/internal/normalisers/neherlab"
	"github.com/replikit/tap-covid19/internal/normalisers/nytimes"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry resolves row-stream names to normalisers. Resolution
// happens once at registration; dispatch is a map lookup.
type Registry struct {
	byStream map[string]driven.RowNormaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byStream: make(map[string]driven.RowNormaliser)}
}

// Default returns a registry with every source normaliser registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register(jhcsse.New())
	r.Register(covidtracking.New())
	r.Register(nytimes.New())
	r.Register(eudaily.New())
	r.Register(neherlab.New())
	return r
}

// Register adds a normaliser for each stream it declares.
func (r *Registry) Register(n driven.RowNormaliser) {
	for _, stream := range n.Streams() {
		r.byStream[stream] = n
	}
}

// Normalise dispatches to the registered normaliser, or passes the row
// through unchanged when the stream has none.
func (r *Registry) Normalise(stream string, row domain.RawRow) (domain.Record, error) {
	if n, ok := r.byStream[stream]; ok {
		return n.Normalise(stream, row)
	}
	rec := make(domain.Record, len(row))
	for k, v := range row {
		rec[k] = v
	}
	return rec, nil
}
