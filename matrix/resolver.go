package matrix

import (
	"strconv"

	log "github.com/sirupsen/logrus"

	"eisenhower-matrix/domain"
)

// Move describes a relocation applied by the resolver.
type Move struct {
	From domain.Location `json:"from"`
	To   domain.Location `json:"to"`
}

// Resolver turns drag gesture endpoints into moves on a Store. Identifiers
// are opaque strings naming either a quadrant or a todo id.
type Resolver struct {
	store *Store
}

// NewResolver creates a Resolver over store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

func parseTodoID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

// DragStart returns the todo being dragged, if it still exists.
func (r *Resolver) DragStart(activeID string) (domain.Todo, bool) {
	id, ok := parseTodoID(activeID)
	if !ok {
		return domain.Todo{}, false
	}
	return r.store.Get(id)
}

// DragEnd resolves where the dragged todo was dropped and applies the move.
// An empty overID means the drop was cancelled. Resolution and the move run
// under a single store lock so the indices cannot go stale in between.
func (r *Resolver) DragEnd(activeID, overID string) (Move, bool) {
	var mv Move
	if overID == "" {
		return mv, false
	}
	id, ok := parseTodoID(activeID)
	if !ok {
		return mv, false
	}

	moved := r.store.mutate(func(b *board) bool {
		src, found := b.find(id)
		if !found {
			return false
		}
		dst, ok := resolveTarget(b, src, overID)
		if !ok {
			return false
		}
		mv = Move{From: src, To: dst}
		return b.move(src.Quadrant, dst.Quadrant, src.Index, dst.Index)
	})
	r.store.logger.WithFields(log.Fields{
		"active": activeID,
		"over":   overID,
		"moved":  moved,
	}).Debug("drag end resolved")
	if !moved {
		return Move{}, false
	}
	return mv, true
}

// resolveTarget maps overID to a destination location. Dropping on a
// quadrant container appends to that quadrant, except for the source
// quadrant which has no positional meaning. Dropping on a todo takes its
// position; dropping on itself resolves to nothing.
func resolveTarget(b *board, src domain.Location, overID string) (domain.Location, bool) {
	if q := domain.Quadrant(overID); q.Valid() {
		if q == src.Quadrant {
			return domain.Location{}, false
		}
		return domain.Location{Quadrant: q, Index: len(b.list(q))}, true
	}
	targetID, ok := parseTodoID(overID)
	if !ok {
		return domain.Location{}, false
	}
	target, found := b.find(targetID)
	if !found {
		return domain.Location{}, false
	}
	if target == src {
		return domain.Location{}, false
	}
	return target, true
}
