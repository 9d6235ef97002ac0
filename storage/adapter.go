package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"eisenhower-matrix/domain"
)

// Default slot keys.
const (
	DefaultMatrixKey   = "eisenhower-matrix-todos"
	DefaultSettingsKey = "language"
)

// Adapter stores the whole matrix as one JSON document under a fixed key.
type Adapter struct {
	slot Slot
	key  string
}

// NewAdapter creates an Adapter over slot. An empty key selects DefaultMatrixKey.
func NewAdapter(slot Slot, key string) *Adapter {
	if slot == nil {
		panic("storage.NewAdapter: slot is nil")
	}
	if key == "" {
		key = DefaultMatrixKey
	}
	return &Adapter{slot: slot, key: key}
}

// Load returns the stored snapshot. An absent slot yields an empty snapshot
// and no error; an unreadable one yields an empty snapshot and the error so
// callers can log it.
func (a *Adapter) Load(ctx context.Context) (domain.Snapshot, error) {
	data, err := a.slot.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return domain.EmptySnapshot(), nil
		}
		return domain.EmptySnapshot(), fmt.Errorf("read %s: %w", a.key, err)
	}
	s, err := decodeSnapshot(data)
	if err != nil {
		return domain.EmptySnapshot(), fmt.Errorf("decode %s: %w", a.key, err)
	}
	return s, nil
}

// Save replaces the stored snapshot.
func (a *Adapter) Save(ctx context.Context, s domain.Snapshot) error {
	data, err := sonic.Marshal(s.Normalize())
	if err != nil {
		return fmt.Errorf("encode %s: %w", a.key, err)
	}
	if err := a.slot.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("write %s: %w", a.key, err)
	}
	return nil
}

// Clear erases the stored snapshot.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.slot.Remove(ctx, a.key); err != nil {
		return fmt.Errorf("remove %s: %w", a.key, err)
	}
	return nil
}

func decodeSnapshot(data []byte) (domain.Snapshot, error) {
	var raw domain.Snapshot
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return raw.Normalize(), nil
}

// SettingsAdapter stores the language preference under its own key, apart
// from the matrix so clearing the matrix keeps it.
type SettingsAdapter struct {
	slot Slot
	key  string
}

// NewSettingsAdapter creates a SettingsAdapter. An empty key selects DefaultSettingsKey.
func NewSettingsAdapter(slot Slot, key string) *SettingsAdapter {
	if slot == nil {
		panic("storage.NewSettingsAdapter: slot is nil")
	}
	if key == "" {
		key = DefaultSettingsKey
	}
	return &SettingsAdapter{slot: slot, key: key}
}

// Load returns the stored settings or the defaults when nothing usable is stored.
func (a *SettingsAdapter) Load(ctx context.Context) (domain.Settings, error) {
	data, err := a.slot.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return domain.DefaultSettings(), nil
		}
		return domain.DefaultSettings(), fmt.Errorf("read %s: %w", a.key, err)
	}
	s := domain.Settings{Language: string(data)}
	if err := s.Validate(); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("decode %s: %w", a.key, err)
	}
	return s, nil
}

// Save validates and stores s.
func (a *SettingsAdapter) Save(ctx context.Context, s domain.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := a.slot.Put(ctx, a.key, []byte(s.Language)); err != nil {
		return fmt.Errorf("write %s: %w", a.key, err)
	}
	return nil
}
