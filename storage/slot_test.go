package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func exerciseSlot(t *testing.T, slot Backend) {
	t.Helper()
	ctx := context.Background()
	if err := slot.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, err := slot.Get(ctx, "missing"); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty, got %v", err)
	}

	if err := slot.Put(ctx, "k", []byte("first")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := slot.Put(ctx, "k", []byte("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := slot.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected second, got %q", got)
	}

	if err := slot.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := slot.Get(ctx, "k"); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty after remove, got %v", err)
	}
	if err := slot.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove absent key: %v", err)
	}
}

func TestMemorySlot(t *testing.T) {
	exerciseSlot(t, NewMemorySlot())
}

func TestMemorySlotCopiesValues(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	buf := []byte("abc")
	if err := slot.Put(ctx, "k", buf); err != nil {
		t.Fatalf("put: %v", err)
	}
	buf[0] = 'x'
	got, _ := slot.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller buffer: %q", got)
	}
}

func TestFileSlot(t *testing.T) {
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("new file slot: %v", err)
	}
	exerciseSlot(t, slot)
}

func TestFileSlotRejectsPathKeys(t *testing.T) {
	slot, err := NewFileSlot(t.TempDir())
	if err != nil {
		t.Fatalf("new file slot: %v", err)
	}
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := slot.Put(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestFileSlotRequiresDir(t *testing.T) {
	if _, err := NewFileSlot(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestSQLiteSlot(t *testing.T) {
	slot, err := OpenSQLite(filepath.Join(t.TempDir(), "matrix.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = slot.Close() })
	exerciseSlot(t, slot)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		cfg  Config
		want any
	}{
		{Config{Backend: "memory"}, &MemorySlot{}},
		{Config{Dir: dir}, &FileSlot{}},
		{Config{Backend: "FILE", Dir: dir}, &FileSlot{}},
		{Config{Backend: "sqlite", SQLitePath: filepath.Join(dir, "m.db")}, &SQLiteSlot{}},
		{Config{Backend: "redis", RedisConnectionString: "redis://localhost:6379/0"}, &RedisSlot{}},
	}
	for _, tc := range cases {
		b, err := Open(tc.cfg)
		if err != nil {
			t.Fatalf("open %+v: %v", tc.cfg, err)
		}
		ok := false
		switch tc.want.(type) {
		case *MemorySlot:
			_, ok = b.(*MemorySlot)
		case *FileSlot:
			_, ok = b.(*FileSlot)
		case *SQLiteSlot:
			_, ok = b.(*SQLiteSlot)
		case *RedisSlot:
			_, ok = b.(*RedisSlot)
		}
		if !ok {
			t.Fatalf("open %+v returned %T", tc.cfg, b)
		}
		_ = b.Close()
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(Config{Backend: "cassandra"}); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}
