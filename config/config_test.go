package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"eisenhower-matrix/storage"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.LogLevel != "info" || cfg.WriteTimeout != 5*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Storage.Backend != storage.BackendFile || cfg.MatrixKey != storage.DefaultMatrixKey || cfg.SettingsKey != storage.DefaultSettingsKey {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MATRIX_STORAGE_BACKEND", "sqlite")
	t.Setenv("MATRIX_SQLITE_PATH", "/tmp/m.db")
	t.Setenv("MATRIX_WRITE_TIMEOUT", "250ms")
	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "7071")
	t.Setenv("DEBUG", "true")
	t.Setenv("MATRIX_ALLOW_ORIGINS", "http://a.example, http://b.example,")

	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLitePath != "/tmp/m.db" {
		t.Fatalf("env not applied to storage: %+v", cfg.Storage)
	}
	if cfg.WriteTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected write timeout %v", cfg.WriteTimeout)
	}
	if cfg.ListenAddr != ":7071" {
		t.Fatalf("expected port override, got %q", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected DEBUG to force debug level, got %q", cfg.LogLevel)
	}
	if len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[0] != "http://a.example" || cfg.AllowOrigins[1] != "http://b.example" {
		t.Fatalf("expected two allowed origins, got %q", cfg.AllowOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"MATRIX_LOG_LEVEL":       "loud",
		"MATRIX_LOG_FORMAT":      "xml",
		"MATRIX_STORAGE_BACKEND": "cassandra",
		"MATRIX_WRITE_TIMEOUT":   "0s",
		"MATRIX_SETTINGS_KEY":    storage.DefaultMatrixKey,
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(NewViper()); err == nil {
				t.Fatalf("expected %s=%s to be rejected", key, value)
			}
		})
	}
}

func TestUnknownBackendIsTyped(t *testing.T) {
	t.Setenv("MATRIX_STORAGE_BACKEND", "cassandra")
	if _, err := Load(NewViper()); !errors.Is(err, storage.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.yaml")
	yaml := "storage_backend: memory\nlisten_addr: \":9000\"\nallow_origins:\n  - https://example.com\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("read file: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != "memory" || cfg.ListenAddr != ":9000" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if len(cfg.AllowOrigins) != 1 || cfg.AllowOrigins[0] != "https://example.com" {
		t.Fatalf("unexpected origins %v", cfg.AllowOrigins)
	}

	if err := ReadFile(NewViper(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for explicit missing file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MATRIX_REDIS_PREFIX=dotenv:\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("MATRIX_REDIS_PREFIX", "")
	os.Unsetenv("MATRIX_REDIS_PREFIX")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.RedisPrefix != "dotenv:" {
		t.Fatalf("expected prefix from .env, got %q", cfg.Storage.RedisPrefix)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "warn", LogFormat: "json"}
	logger, err := cfg.NewLogger(&buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.GetLevel() != log.WarnLevel {
		t.Fatalf("unexpected level %v", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*log.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter, got %T", logger.Formatter)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) || !bytes.Contains(buf.Bytes(), []byte(`"msg":"shown"`)) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
