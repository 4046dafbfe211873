package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var fileKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type fileConfig struct {
	Dir string `json:"dir"`
}

// fileStore keeps one file per key under dir. Writes go to a temp file that
// is renamed over the target, so a crash leaves either the old or new value.
type fileStore struct {
	dir string
}

func init() {
	Register("file", createFileStore)
}

func createFileStore(args interface{}) (Store, error) {
	config := &fileConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	return NewFile(config.Dir)
}

func NewFile(dir string) (Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("file kv store dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create kv dir: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Type() string {
	return "file"
}

func (s *fileStore) path(key string) (string, error) {
	if !fileKeyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid kv key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *fileStore) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(content), true, nil
}

func (s *fileStore) Set(ctx context.Context, key, value string) error {
	_ = ctx
	path, err := s.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *fileStore) Close() error {
	return nil
}
