package storage

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniredisSlot(t *testing.T, prefix string) (*RedisSlot, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	slot := NewRedisSlot(&redis.Options{Addr: mr.Addr()}, prefix)
	t.Cleanup(func() { _ = slot.Close() })
	return slot, mr
}

func TestRedisSlot(t *testing.T) {
	slot, _ := newMiniredisSlot(t, "")
	exerciseSlot(t, slot)
}

func TestRedisSlotPrefixesKeysWithoutTTL(t *testing.T) {
	slot, mr := newMiniredisSlot(t, "matrix:")
	if err := slot.Put(context.Background(), DefaultMatrixKey, []byte("{}")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := mr.Get("matrix:" + DefaultMatrixKey)
	if err != nil {
		t.Fatalf("miniredis get: %v", err)
	}
	if got != "{}" {
		t.Fatalf("unexpected stored value %q", got)
	}
	if ttl := mr.TTL("matrix:" + DefaultMatrixKey); ttl != 0 {
		t.Fatalf("expected no expiry, got %v", ttl)
	}
}

func TestRedisSlotUnavailable(t *testing.T) {
	slot, mr := newMiniredisSlot(t, "")
	mr.Close()
	if _, err := slot.Get(context.Background(), "k"); err == nil || errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if err := slot.Init(context.Background()); err == nil {
		t.Fatal("expected ping to fail")
	}
}

func TestParseRedisOptions(t *testing.T) {
	opts, err := ParseRedisOptions("redis://:secret@localhost:6380/2")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("unexpected url options: %+v", opts)
	}

	opts, err = ParseRedisOptions("cache.example.net:6380,password=pw,ssl=True,abortConnect=False")
	if err != nil {
		t.Fatalf("parse azure form: %v", err)
	}
	if opts.Addr != "cache.example.net:6380" || opts.Password != "pw" || opts.TLSConfig == nil {
		t.Fatalf("unexpected azure options: %+v", opts)
	}

	if _, err := ParseRedisOptions("  "); err == nil {
		t.Fatal("expected error for empty connection string")
	}
}
