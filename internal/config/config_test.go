package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"port": 8080}`))
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, "memory", cfg.KVStore.Type)
	require.Equal(t, "local", cfg.FileStore.Type)
	require.Equal(t, 72, cfg.Auth.JWTTTLHours)
	require.Equal(t, 64, cfg.Export.CacheSize)
	require.Equal(t, int64(300), cfg.Export.CacheTTLSeconds)
	require.Equal(t, "0 2 * * *", cfg.Snapshot.Spec)
}

func TestLoad_MissingPort(t *testing.T) {
	_, err := Load(writeConfig(t, `{}`))
	require.Error(t, err)
}

func TestLoad_UnknownKVStore(t *testing.T) {
	_, err := Load(writeConfig(t, `{"port": 1, "kv_store": {"type": "etcd"}}`))
	require.Error(t, err)
}

func TestLoad_SnapshotNeedsFileStore(t *testing.T) {
	_, err := Load(writeConfig(t, `{"port": 1, "snapshot": {"enabled": true}}`))
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CLINICBILL_PORT", "9090")
	t.Setenv("CLINICBILL_KV_STORE_TYPE", "redis")
	t.Setenv("CLINICBILL_JWT_SECRET", "from-env")
	t.Setenv("CLINICBILL_PRODUCTION", "true")

	cfg, err := Load(writeConfig(t, `{"port": 8080, "kv_store": {"type": "file"}}`))
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "redis", cfg.KVStore.Type)
	require.Equal(t, "from-env", cfg.Auth.JWTSecret)
	require.True(t, cfg.Production)
}

func TestLoad_BadJSON(t *testing.T) {
	_, err := Load(writeConfig(t, `{"port": `))
	require.Error(t, err)
}
