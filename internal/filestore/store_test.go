package filestore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/clinicbill/internal/config"
)

func TestLocalStore_SaveOpen(t *testing.T) {
	dir := t.TempDir()
	store, err := New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": dir}})
	require.NoError(t, err)
	require.Equal(t, "local", store.Type())

	content := []byte("Motivo,Quantidade\n")
	err = store.Save(context.Background(), "snapshots/2025-06-30/Negacoes.csv", NopCloser(bytes.NewReader(content)), int64(len(content)), "text/csv")
	require.NoError(t, err)

	onDisk, err := os.ReadFile(filepath.Join(dir, "snapshots", "2025-06-30", "Negacoes.csv"))
	require.NoError(t, err)
	require.Equal(t, content, onDisk)

	rc, err := store.Open(context.Background(), "snapshots/2025-06-30/Negacoes.csv")
	require.NoError(t, err)
	defer rc.Close()
	read, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, content, read)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	for _, key := range []string{"../x.csv", "a/../../x.csv", ""} {
		err := store.Save(context.Background(), key, NopCloser(bytes.NewReader(nil)), 0, "")
		require.Error(t, err, key)
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New(config.FileStoreConfig{})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{Type: "ftp"})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{Type: "local"})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{Type: "s3", Data: map[string]interface{}{"bucket": "b"}})
	require.Error(t, err)
}

func TestBuildEndpoint(t *testing.T) {
	require.Equal(t, "", buildEndpoint("", true))
	require.Equal(t, "https://minio.local:9000", buildEndpoint("minio.local:9000", true))
	require.Equal(t, "http://minio.local:9000", buildEndpoint("minio.local:9000/", false))
	require.Equal(t, "https://s3.example.com", buildEndpoint("https://s3.example.com", false))
}

func TestS3Store_ObjectKey(t *testing.T) {
	s := &s3Store{prefix: "clinicbill"}
	require.Equal(t, "clinicbill/a/b.csv", s.objectKey("/a/b.csv"))
	s.prefix = ""
	require.Equal(t, "a/b.csv", s.objectKey("a/b.csv"))
}
