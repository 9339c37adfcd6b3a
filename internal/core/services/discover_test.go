package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replikit/tap-covid19/internal/core/domain"
)

func TestDiscover_CoversEveryStream(t *testing.T) {
	catalog := Discover()
	require.Len(t, catalog.Entries, 32)

	for _, stream := range domain.Streams() {
		_, ok := catalog.Entry(stream.Name)
		assert.True(t, ok, "missing catalog entry for %s", stream.Name)
		for _, child := range stream.Children {
			_, ok := catalog.Entry(child.Name)
			assert.True(t, ok, "missing catalog entry for %s", child.Name)
		}
	}
}

func TestDiscover_NothingSelected(t *testing.T) {
	catalog := Discover()
	assert.Empty(t, catalog.SelectedStreams())
}

func TestDiscover_FileStreamEntry(t *testing.T) {
	catalog := Discover()

	entry, ok := catalog.Entry("jh_csse_daily_files")
	require.True(t, ok)
	assert.Equal(t, domain.ReplicationIncremental, entry.ReplicationMethod)
	assert.Equal(t, []string{"path"}, entry.KeyProperties)
	assert.Equal(t, []string{"last_modified"}, entry.ReplicationKeys)

	props, ok := entry.Schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "sha")
	assert.Contains(t, props, "last_modified")
	assert.Equal(t, true, entry.Schema["additionalProperties"])
}

func TestDiscover_RowStreamEntry(t *testing.T) {
	catalog := Discover()

	entry, ok := catalog.Entry("jh_csse_daily")
	require.True(t, ok)
	assert.Equal(t, domain.ReplicationFullTable, entry.ReplicationMethod)
	assert.Equal(t, []string{"date", "row_number"}, entry.KeyProperties)
	assert.Empty(t, entry.ReplicationKeys)

	props, ok := entry.Schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, domain.FieldGitPath)
	assert.Contains(t, props, domain.FieldRowNumber)
}

func TestDiscover_FieldsSortedAndSelected(t *testing.T) {
	catalog := Discover()

	entry, ok := catalog.Entry("eu_daily")
	require.True(t, ok)
	require.NotEmpty(t, entry.Fields)
	for i, f := range entry.Fields {
		assert.True(t, f.Selected)
		if i > 0 {
			assert.Less(t, entry.Fields[i-1].Name, f.Name)
		}
	}
}
