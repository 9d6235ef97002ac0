package storage

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlot stores values as plain Redis strings without expiry.
type RedisSlot struct {
	client *redis.Client
	prefix string
}

// NewRedisSlot creates a RedisSlot. Keys are stored as prefix+key.
func NewRedisSlot(opts *redis.Options, prefix string) *RedisSlot {
	return NewRedisSlotFromClient(redis.NewClient(opts), prefix)
}

// NewRedisSlotFromClient wraps an existing client.
func NewRedisSlotFromClient(client *redis.Client, prefix string) *RedisSlot {
	if client == nil {
		panic("storage.NewRedisSlotFromClient: client is nil")
	}
	return &RedisSlot{client: client, prefix: prefix}
}

// ParseRedisOptions accepts either a redis:// URL or the
// "host:port,password=...,ssl=true" form used by Azure connection strings.
func ParseRedisOptions(conn string) (*redis.Options, error) {
	conn = strings.TrimSpace(conn)
	if conn == "" {
		return nil, errors.New("missing redis connection string")
	}
	opts, err := redis.ParseURL(conn)
	if err == nil {
		return opts, nil
	}
	parts := strings.Split(conn, ",")
	if strings.Contains(parts[0], "://") || strings.Contains(parts[0], "=") {
		return nil, fmt.Errorf("invalid redis connection string: %w", err)
	}
	opts = &redis.Options{
		Addr:         parts[0],
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts, nil
}

func (r *RedisSlot) key(k string) string {
	return r.prefix + k
}

func (r *RedisSlot) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisSlot) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisSlot) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Init checks the server is reachable.
func (r *RedisSlot) Init(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *RedisSlot) Close() error {
	return r.client.Close()
}
