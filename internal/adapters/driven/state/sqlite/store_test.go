package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replikit/tap-covid19/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Contains(t, store.Path(), dir)
	assert.Contains(t, store.Path(), "state.db")
}

func TestLoad_FreshDatabaseIsEmpty(t *testing.T) {
	store := newTestStore(t)

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Bookmarks)
	assert.Empty(t, state.CurrentlySyncing)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	state := domain.NewReplicationState()
	state.SetBookmark("jh_csse_daily_files", "2020-03-22T01:00:00Z")
	state.SetBookmark("jh_csse_daily", int64(1585000000123))
	state.CurrentlySyncing = "jh_csse_daily_files"
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2020-03-22T01:00:00Z", loaded.StringBookmark("jh_csse_daily_files", ""))
	assert.Equal(t, int64(1585000000123), loaded.VersionBookmark("jh_csse_daily"))
	assert.Equal(t, "jh_csse_daily_files", loaded.CurrentlySyncing)
}

func TestSave_OverwritesBookmark(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	state := domain.NewReplicationState()
	state.SetBookmark("s", "2020-03-01T00:00:00Z")
	require.NoError(t, store.Save(ctx, state))

	state.SetBookmark("s", "2020-03-02T00:00:00Z")
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2020-03-02T00:00:00Z", loaded.StringBookmark("s", ""))
}

func TestSave_ClearsCurrentlySyncing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	state := domain.NewReplicationState()
	state.CurrentlySyncing = "eu_daily_files"
	require.NoError(t, store.Save(ctx, state))

	state.CurrentlySyncing = ""
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.CurrentlySyncing)
}

func TestSave_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)

	state := domain.NewReplicationState()
	state.SetBookmark("s", "2020-04-01T00:00:00Z")
	require.NoError(t, store.Save(ctx, state))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2020-04-01T00:00:00Z", loaded.StringBookmark("s", ""))
}
