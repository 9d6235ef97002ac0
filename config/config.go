// Package config loads runtime settings from flags, MATRIX_* environment
// variables, an optional YAML file and a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"eisenhower-matrix/storage"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "MATRIX"

// Config holds typed configuration for every command.
type Config struct {
	LogLevel  string
	LogFormat string

	ListenAddr      string
	AllowOrigins    []string
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	MatrixKey   string
	SettingsKey string
	Storage     storage.Config
}

// NewViper returns a viper instance with defaults and environment binding applied.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("port", "FUNCTIONS_CUSTOMHANDLER_PORT")
	_ = v.BindEnv("debug", "DEBUG")
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("allow_origins", []string{"*"})
	v.SetDefault("write_timeout", 5*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("matrix_key", storage.DefaultMatrixKey)
	v.SetDefault("settings_key", storage.DefaultSettingsKey)
	v.SetDefault("storage_backend", storage.BackendFile)
	v.SetDefault("storage_dir", "./data")
	v.SetDefault("sqlite_path", "./data/matrix.db")
	v.SetDefault("redis_connection_string", "")
	v.SetDefault("redis_prefix", "matrix:")
	v.SetDefault("table_connection_string", "")
	v.SetDefault("table_name", "matrix")
	v.SetDefault("table_partition", storage.DefaultTablePartition)
}

// ReadFile merges the YAML file at path into v. With an empty path it looks
// for matrix.yaml in the working directory and silently skips a missing one.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("matrix")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads all values from v and validates them.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		ListenAddr:      v.GetString("listen_addr"),
		AllowOrigins:    splitList(v.GetStringSlice("allow_origins")),
		WriteTimeout:    v.GetDuration("write_timeout"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		MatrixKey:       v.GetString("matrix_key"),
		SettingsKey:     v.GetString("settings_key"),
		Storage: storage.Config{
			Backend:               v.GetString("storage_backend"),
			Dir:                   v.GetString("storage_dir"),
			SQLitePath:            v.GetString("sqlite_path"),
			RedisConnectionString: v.GetString("redis_connection_string"),
			RedisPrefix:           v.GetString("redis_prefix"),
			TableConnectionString: v.GetString("table_connection_string"),
			TableName:             v.GetString("table_name"),
			TablePartition:        v.GetString("table_partition"),
		},
	}
	if port := v.GetString("port"); port != "" {
		cfg.ListenAddr = ":" + port
	}
	if v.GetBool("debug") {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// splitList accepts both comma and whitespace separated values, as
// environment variables only split on whitespace.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate reports the first invalid value.
func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: want text or json", c.LogFormat)
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than zero")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be greater than zero")
	}
	if c.MatrixKey == "" || c.SettingsKey == "" {
		return errors.New("matrix and settings keys must not be empty")
	}
	if c.MatrixKey == c.SettingsKey {
		return errors.New("matrix and settings keys must differ")
	}
	switch strings.ToLower(c.Storage.Backend) {
	case storage.BackendMemory, storage.BackendFile, storage.BackendSQLite, storage.BackendRedis, storage.BackendTable:
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnknownBackend, c.Storage.Backend)
	}
	return nil
}
