package api

import (
	"context"

	"eisenhower-matrix/domain"
	"eisenhower-matrix/matrix"
)

// Matrix is the store surface the handlers drive.
type Matrix interface {
	Snapshot() domain.Snapshot
	Todos(q domain.Quadrant) []domain.Todo
	Add(q domain.Quadrant, text, description, dueDate string) (domain.Todo, bool)
	Toggle(q domain.Quadrant, id int64) bool
	ToggleExpanded(q domain.Quadrant, id int64) bool
	Delete(q domain.Quadrant, id int64) bool
	Edit(q domain.Quadrant, id int64, u domain.Update) (domain.Todo, bool)
	Move(src, dst domain.Quadrant, from, to int) bool
	Find(id int64) (domain.Location, bool)
	Get(id int64) (domain.Todo, bool)
	Clear()
}

// DragResolver maps drag gesture identifiers to moves.
type DragResolver interface {
	DragStart(activeID string) (domain.Todo, bool)
	DragEnd(activeID, overID string) (matrix.Move, bool)
}

// SettingsStore persists user preferences.
type SettingsStore interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, s domain.Settings) error
}
