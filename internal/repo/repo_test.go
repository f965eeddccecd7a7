package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planline/internal/db"
	"planline/internal/migrate"
	"planline/internal/repo"
)

func newRepo(t *testing.T) repo.Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrate.Migrate(context.Background(), conn))
	cache, err := repo.NewCache(1 << 16)
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return repo.Repo{DB: conn, Cache: cache}
}

func TestKVPutGetDelete(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	_, err := r.Get(ctx, "project/a")
	require.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.Put(ctx, "project/a", []byte(`{"v":1}`)))
	v, err := r.Get(ctx, "project/a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(v))
	r.Cache.Wait()

	require.NoError(t, r.Put(ctx, "project/a", []byte(`{"v":2}`)))
	v, err = r.Get(ctx, "project/a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(v), "writes invalidate the cached value")

	tx, err := r.DB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, r.DeleteTx(ctx, tx, "project/a"))
	require.NoError(t, tx.Commit())
	_, err = r.Get(ctx, "project/a")
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestRolledBackWriteIsInvisible(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Put(ctx, "meta/current", []byte("a")))

	tx, err := r.DB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, r.PutTx(ctx, tx, "meta/current", []byte("b")))
	require.NoError(t, tx.Rollback())

	v, err := r.Get(ctx, "meta/current")
	require.NoError(t, err)
	assert.Equal(t, "a", string(v))
}

func TestKeysByPrefix(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	for _, k := range []string{"project/b", "index/projects", "project/a", "projects-x"} {
		require.NoError(t, r.Put(ctx, k, []byte("{}")))
	}
	keys, err := r.Keys(ctx, "project/")
	require.NoError(t, err)
	assert.Equal(t, []string{"project/a", "project/b"}, keys)
}

func TestNilCacheIsUsable(t *testing.T) {
	r := newRepo(t)
	r.Cache = nil
	ctx := context.Background()
	require.NoError(t, r.Put(ctx, "k", []byte("v")))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))
}
