package domain

// CatalogField describes one selectable field of a stream schema.
type CatalogField struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// CatalogEntry describes one stream in the catalog: its generated
// schema, key metadata, and selection flags.
type CatalogEntry struct {
	Stream            string            `json:"stream"`
	Schema            map[string]any    `json:"schema"`
	KeyProperties     []string          `json:"key_properties"`
	ReplicationMethod ReplicationMethod `json:"replication_method"`
	ReplicationKeys   []string          `json:"replication_keys,omitempty"`
	Selected          bool              `json:"selected"`
	Fields            []CatalogField    `json:"fields,omitempty"`
}

// Catalog is the full stream/selection structure handed to the sync
// orchestrator. Field-level selection is carried through for downstream
// consumers; engine correctness does not depend on it.
type Catalog struct {
	Entries []CatalogEntry `json:"streams"`
}

// Entry returns the catalog entry for a stream name.
func (c *Catalog) Entry(stream string) (CatalogEntry, bool) {
	for _, e := range c.Entries {
		if e.Stream == stream {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// IsSelected reports whether a stream is marked for replication.
func (c *Catalog) IsSelected(stream string) bool {
	e, ok := c.Entry(stream)
	return ok && e.Selected
}

// SelectedStreams returns the names of all selected streams, in
// catalog order.
func (c *Catalog) SelectedStreams() []string {
	var names []string
	for _, e := range c.Entries {
		if e.Selected {
			names = append(names, e.Stream)
		}
	}
	return names
}

// SelectAll marks every entry as selected. Used by the CLI when an
// explicit stream list is not provided.
func (c *Catalog) SelectAll() {
	for i := range c.Entries {
		c.Entries[i].Selected = true
	}
}

// SelectOnly selects exactly the named streams. Unknown names return
// ErrUnknownStream.
func (c *Catalog) SelectOnly(names []string) error {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := c.Entry(n); !ok {
			return ErrUnknownStream
		}
		want[n] = true
	}
	for i := range c.Entries {
		c.Entries[i].Selected = want[c.Entries[i].Stream]
	}
	return nil
}
