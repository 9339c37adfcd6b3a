package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookmark_Default(t *testing.T) {
	state := NewReplicationState()
	assert.Equal(t, "fallback", state.Bookmark("missing", "fallback"))

	var nilState *ReplicationState
	assert.Equal(t, "fallback", nilState.Bookmark("missing", "fallback"))
}

func TestStringBookmark(t *testing.T) {
	state := NewReplicationState()
	state.SetBookmark("s", "2020-03-01T00:00:00Z")
	assert.Equal(t, "2020-03-01T00:00:00Z", state.StringBookmark("s", "def"))

	state.SetBookmark("v", int64(42))
	assert.Equal(t, "def", state.StringBookmark("v", "def"))
}

func TestVersionBookmark(t *testing.T) {
	state := NewReplicationState()
	assert.Zero(t, state.VersionBookmark("never_synced"))

	state.SetBookmark("a", int64(1585000000123))
	assert.Equal(t, int64(1585000000123), state.VersionBookmark("a"))

	// JSON round trips integers as float64.
	state.SetBookmark("b", float64(1585000000123))
	assert.Equal(t, int64(1585000000123), state.VersionBookmark("b"))

	state.SetBookmark("c", 7)
	assert.Equal(t, int64(7), state.VersionBookmark("c"))

	state.SetBookmark("d", "not a version")
	assert.Zero(t, state.VersionBookmark("d"))
}

func TestSetBookmark_NilMap(t *testing.T) {
	state := &ReplicationState{}
	state.SetBookmark("s", "v")
	assert.Equal(t, "v", state.StringBookmark("s", ""))
}
