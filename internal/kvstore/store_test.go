package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/clinicbill/internal/config"
	"github.com/xxxsen/clinicbill/internal/db"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "clinic_billing_saved_views")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "clinic_billing_saved_views", `[{"id":"1"}]`))
	value, ok, err := store.Get(ctx, "clinic_billing_saved_views")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"id":"1"}]`, value)

	require.NoError(t, store.Set(ctx, "clinic_billing_saved_views", `[]`))
	value, ok, err = store.Get(ctx, "clinic_billing_saved_views")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[]`, value)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	require.Equal(t, "memory", store.Type())
	exerciseStore(t, store)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	require.NoError(t, err)
	exerciseStore(t, store)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "clinic_billing_saved_views.json", entries[0].Name())
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kv")
	first, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(context.Background(), "views", "payload"))

	second, err := NewFile(dir)
	require.NoError(t, err)
	value, ok, err := second.Get(context.Background(), "views")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "payload", value)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)
	require.Error(t, store.Set(context.Background(), "../escape", "x"))
	_, _, err = store.Get(context.Background(), "a/b")
	require.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedis(client, "clinicbill:")
	defer store.Close()
	exerciseStore(t, store)

	raw, err := mr.Get("clinicbill:clinic_billing_saved_views")
	require.NoError(t, err)
	require.Equal(t, `[]`, raw)
}

func TestNew_Registry(t *testing.T) {
	store, err := New(config.KVStoreConfig{Type: "memory"})
	require.NoError(t, err)
	require.Equal(t, "memory", store.Type())

	store, err = New(config.KVStoreConfig{Type: "FILE", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)
	require.Equal(t, "file", store.Type())

	mr := miniredis.RunT(t)
	store, err = New(config.KVStoreConfig{Type: "redis", Data: map[string]interface{}{"addr": mr.Addr()}})
	require.NoError(t, err)
	require.Equal(t, "redis", store.Type())
	require.NoError(t, store.Close())

	_, err = New(config.KVStoreConfig{Type: "etcd"})
	require.Error(t, err)
	_, err = New(config.KVStoreConfig{Type: "file"})
	require.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping postgres test")
	}
	conn, err := db.Open(db.Config{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations(conn))
	_, err = conn.Exec("DELETE FROM kv_store WHERE kv_key = 'clinic_billing_saved_views'")
	require.NoError(t, err)

	store := NewPostgres(conn)
	defer store.Close()
	exerciseStore(t, store)
}
