package bundoc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/workbridge/go-authsync"
)

func setupStore(t *testing.T) (*Store, func()) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, Migrate(context.Background(), db))

	cleanup := func() {
		_ = db.Close()
		_ = sqldb.Close()
	}

	return New(db), cleanup
}

func TestStoreSetAndGet(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := map[string]any{
		"uid":   "u1",
		"email": "ada@example.com",
		"name":  "Ada",
		"role":  "admin",
	}
	require.NoError(t, store.Set(ctx, "users", "u1", doc))

	got, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got["email"])
	assert.Equal(t, "admin", got["role"])
}

func TestStoreGetMiss(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "users", "nope")
	assert.True(t, authsync.IsDocumentNotFound(err))
}

func TestStoreSetReplaces(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "users", "u1", map[string]any{"role": "buyer", "name": "Ada"}))
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]any{"role": "admin"}))

	got, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin", got["role"])
	_, hasName := got["name"]
	assert.False(t, hasName, "Set replaces the whole payload")
}

func TestStoreUpdateMergesFields(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "users", "u1", map[string]any{"role": "buyer", "name": "Ada"}))
	require.NoError(t, store.Update(ctx, "users", "u1", map[string]any{"role": "provider"}))

	got, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "provider", got["role"])
	assert.Equal(t, "Ada", got["name"], "untouched fields survive an update")
}

func TestStoreUpdateMiss(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	err := store.Update(context.Background(), "users", "nope", map[string]any{"role": "admin"})
	assert.True(t, authsync.IsDocumentNotFound(err))
}

func TestStoreQueryByField(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "projects", "p1", map[string]any{"freelancerId": "u1", "title": "Site"}))
	require.NoError(t, store.Set(ctx, "projects", "p2", map[string]any{"freelancerId": "u2", "title": "App"}))
	require.NoError(t, store.Set(ctx, "projects", "p3", map[string]any{"freelancerId": "u1", "title": "Logo"}))

	docs, err := store.Query(ctx, "projects", "freelancerId", "u1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Site", docs[0]["title"])
	assert.Equal(t, "Logo", docs[1]["title"])
}

func TestStoreQueryScopedToCollection(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "projects", "p1", map[string]any{"uid": "u1"}))
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]any{"uid": "u1"}))

	docs, err := store.Query(ctx, "projects", "uid", "u1")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestStoreList(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "users", "b", map[string]any{"uid": "b"}))
	require.NoError(t, store.Set(ctx, "users", "a", map[string]any{"uid": "a"}))

	docs, err := store.List(ctx, "users")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0]["uid"], "listing is ordered by key")

	empty, err := store.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
