package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return &Catalog{Entries: []CatalogEntry{
		{Stream: "a_files"},
		{Stream: "a"},
		{Stream: "b_files"},
	}}
}

func TestEntry(t *testing.T) {
	c := testCatalog()

	e, ok := c.Entry("a")
	require.True(t, ok)
	assert.Equal(t, "a", e.Stream)

	_, ok = c.Entry("missing")
	assert.False(t, ok)
}

func TestSelectAll(t *testing.T) {
	c := testCatalog()
	c.SelectAll()

	assert.Equal(t, []string{"a_files", "a", "b_files"}, c.SelectedStreams())
	assert.True(t, c.IsSelected("b_files"))
}

func TestSelectOnly(t *testing.T) {
	c := testCatalog()
	c.SelectAll()

	require.NoError(t, c.SelectOnly([]string{"a"}))
	assert.Equal(t, []string{"a"}, c.SelectedStreams())
	assert.False(t, c.IsSelected("a_files"))
}

func TestSelectOnly_UnknownStream(t *testing.T) {
	c := testCatalog()
	err := c.SelectOnly([]string{"a", "nope"})
	assert.ErrorIs(t, err, ErrUnknownStream)
}

func TestIsSelected_MissingStream(t *testing.T) {
	c := testCatalog()
	assert.False(t, c.IsSelected("missing"))
}
