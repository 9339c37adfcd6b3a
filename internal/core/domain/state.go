package domain

// ReplicationState is the persisted high-water-mark map. It is owned
// exclusively by the sync orchestrator and flushed to durable storage
// synchronously after every bookmark change.
type ReplicationState struct {
	// Bookmarks maps stream name to a bookmark value: an ISO-8601
	// timestamp for INCREMENTAL streams, or an integer version token
	// (as int64) for full-replace child streams.
	Bookmarks map[string]any `json:"bookmarks"`

	// CurrentlySyncing names the stream that was active when the
	// process last stopped, for crash resumability. Empty when the
	// previous run completed normally.
	CurrentlySyncing string `json:"currently_syncing,omitempty"`
}

// NewReplicationState returns an empty state.
func NewReplicationState() *ReplicationState {
	return &ReplicationState{Bookmarks: make(map[string]any)}
}

// Bookmark returns the persisted bookmark for stream, or def when none
// is recorded.
func (s *ReplicationState) Bookmark(stream string, def any) any {
	if s == nil || s.Bookmarks == nil {
		return def
	}
	if v, ok := s.Bookmarks[stream]; ok {
		return v
	}
	return def
}

// StringBookmark returns the bookmark for stream as a string, or def
// when absent or not a string.
func (s *ReplicationState) StringBookmark(stream, def string) string {
	v := s.Bookmark(stream, def)
	if str, ok := v.(string); ok {
		return str
	}
	return def
}

// VersionBookmark returns the persisted version token for a
// full-replace stream, or 0 when the stream has never completed a run.
func (s *ReplicationState) VersionBookmark(stream string) int64 {
	switch v := s.Bookmark(stream, nil).(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// SetBookmark records a bookmark value in memory. Callers are
// responsible for persisting the state afterwards.
func (s *ReplicationState) SetBookmark(stream string, value any) {
	if s.Bookmarks == nil {
		s.Bookmarks = make(map[string]any)
	}
	s.Bookmarks[stream] = value
}
