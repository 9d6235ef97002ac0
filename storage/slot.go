// Package storage persists matrix snapshots and settings in a key-value slot.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSlotEmpty is returned by Slot.Get when nothing is stored under the key.
	ErrSlotEmpty = errors.New("slot empty")
	// ErrCorruptSnapshot is returned when a stored value cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
	// ErrValueTooLarge is returned by Put when a backend cannot hold the value.
	ErrValueTooLarge = errors.New("value too large for slot")
)

// Slot is a durable key-value store holding whole documents.
type Slot interface {
	// Get returns the value stored under key or ErrSlotEmpty.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Backend is a Slot that owns external resources.
type Backend interface {
	Slot
	// Init prepares the backend (schema, table, directory) and checks it is reachable.
	Init(ctx context.Context) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendTable  = "table"
)

// Config selects and configures a Backend.
type Config struct {
	Backend string

	Dir        string
	SQLitePath string

	RedisConnectionString string
	RedisPrefix           string

	TableConnectionString string
	TableName             string
	TablePartition        string
}

// Open constructs the backend named by cfg.Backend. It does not call Init.
func Open(cfg Config) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendMemory:
		return NewMemorySlot(), nil
	case BackendFile, "":
		return NewFileSlot(cfg.Dir)
	case BackendSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case BackendRedis:
		opts, err := ParseRedisOptions(cfg.RedisConnectionString)
		if err != nil {
			return nil, err
		}
		return NewRedisSlot(opts, cfg.RedisPrefix), nil
	case BackendTable:
		return NewTableSlot(cfg.TableConnectionString, cfg.TableName, cfg.TablePartition)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
