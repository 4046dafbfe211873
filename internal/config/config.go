package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/xxxsen/common/logger"
)

const envPrefix = "clinicbill"

type Config struct {
	Port          int              `json:"port"`
	Production    bool             `json:"production"`
	LogConfig     logger.LogConfig `json:"log_config"`
	KVStore       KVStoreConfig    `json:"kv_store"`
	FileStore     FileStoreConfig  `json:"file_store"`
	Auth          AuthConfig       `json:"auth"`
	Export        ExportConfig     `json:"export"`
	Snapshot      SnapshotConfig   `json:"snapshot"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	RateLimitMS   int64            `json:"rate_limit_ms"`
}

// KVStoreConfig selects the provider that holds the saved view collection.
// Data is decoded by the provider itself.
type KVStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AuthConfig struct {
	JWTSecret   string `json:"jwt_secret"`
	JWTTTLHours int    `json:"jwt_ttl_hours"`
}

type ExportConfig struct {
	CacheSize       int   `json:"cache_size"`
	CacheTTLSeconds int64 `json:"cache_ttl_seconds"`
}

type SnapshotConfig struct {
	Enabled bool   `json:"enabled"`
	Spec    string `json:"spec"`
}

// envOverrides are read from CLINICBILL_* variables after the file is decoded.
type envOverrides struct {
	Port          int    `envconfig:"PORT"`
	LogLevel      string `envconfig:"LOG_LEVEL"`
	KVStoreType   string `envconfig:"KV_STORE_TYPE"`
	FileStoreType string `envconfig:"FILE_STORE_TYPE"`
	JWTSecret     string `envconfig:"JWT_SECRET"`
	Production    *bool  `envconfig:"PRODUCTION"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("read env overrides: %w", err)
	}
	if env.Port != 0 {
		cfg.Port = env.Port
	}
	if env.LogLevel != "" {
		cfg.LogConfig.Level = env.LogLevel
	}
	if env.KVStoreType != "" {
		cfg.KVStore.Type = env.KVStoreType
	}
	if env.FileStoreType != "" {
		cfg.FileStore.Type = env.FileStoreType
	}
	if env.JWTSecret != "" {
		cfg.Auth.JWTSecret = env.JWTSecret
	}
	if env.Production != nil {
		cfg.Production = *env.Production
	}
	return nil
}

func (cfg *Config) normalize() error {
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	cfg.KVStore.Type = strings.ToLower(strings.TrimSpace(cfg.KVStore.Type))
	if cfg.KVStore.Type == "" {
		cfg.KVStore.Type = "memory"
	}
	switch cfg.KVStore.Type {
	case "memory", "file", "redis", "postgres":
	default:
		return fmt.Errorf("kv_store.type must be memory, file, redis or postgres")
	}
	cfg.FileStore.Type = strings.ToLower(strings.TrimSpace(cfg.FileStore.Type))
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	switch cfg.FileStore.Type {
	case "local", "s3":
	default:
		return fmt.Errorf("file_store.type must be local or s3")
	}
	if cfg.Auth.JWTTTLHours == 0 {
		cfg.Auth.JWTTTLHours = 72
	}
	if cfg.Export.CacheSize == 0 {
		cfg.Export.CacheSize = 64
	}
	if cfg.Export.CacheTTLSeconds == 0 {
		cfg.Export.CacheTTLSeconds = 300
	}
	if cfg.Snapshot.Spec == "" {
		cfg.Snapshot.Spec = "0 2 * * *"
	}
	if cfg.Snapshot.Enabled && cfg.FileStore.Data == nil {
		return fmt.Errorf("file_store.data is required when snapshot is enabled")
	}
	return nil
}
