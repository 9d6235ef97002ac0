package matrix

import (
	"slices"

	"eisenhower-matrix/domain"
)

// board holds one ordered sequence per quadrant, indexed by Quadrant.Index.
// It is not safe for concurrent use; Store guards it.
type board [len(domain.Quadrants)][]domain.Todo

func newBoard(s domain.Snapshot) board {
	var b board
	s = s.Normalize()
	for i, q := range domain.Quadrants {
		b[i] = slices.Clone(s[q])
	}
	return b
}

func (b *board) snapshot() domain.Snapshot {
	s := make(domain.Snapshot, len(b))
	for i, q := range domain.Quadrants {
		todos := slices.Clone(b[i])
		if todos == nil {
			todos = []domain.Todo{}
		}
		s[q] = todos
	}
	return s
}

func (b *board) list(q domain.Quadrant) []domain.Todo {
	i := q.Index()
	if i < 0 {
		return nil
	}
	return b[i]
}

func (b *board) indexOf(q domain.Quadrant, id int64) int {
	return slices.IndexFunc(b.list(q), func(t domain.Todo) bool { return t.ID == id })
}

// find scans the quadrants in canonical order and returns the first match.
func (b *board) find(id int64) (domain.Location, bool) {
	for i, q := range domain.Quadrants {
		if idx := slices.IndexFunc(b[i], func(t domain.Todo) bool { return t.ID == id }); idx >= 0 {
			return domain.Location{Quadrant: q, Index: idx}, true
		}
	}
	return domain.Location{}, false
}

func (b *board) append(q domain.Quadrant, t domain.Todo) bool {
	i := q.Index()
	if i < 0 {
		return false
	}
	b[i] = append(b[i], t)
	return true
}

// update runs fn against the todo with the given id in q.
func (b *board) update(q domain.Quadrant, id int64, fn func(*domain.Todo) bool) bool {
	idx := b.indexOf(q, id)
	if idx < 0 {
		return false
	}
	return fn(&b[q.Index()][idx])
}

func (b *board) remove(q domain.Quadrant, id int64) bool {
	idx := b.indexOf(q, id)
	if idx < 0 {
		return false
	}
	i := q.Index()
	b[i] = slices.Delete(b[i], idx, idx+1)
	return true
}

// move repositions a todo. Within one quadrant it behaves like a sortable
// list's array move: remove at from, insert at to of the shortened sequence.
// Across quadrants the todo is removed from src and inserted into dst at to.
// Out of range indices leave the board untouched.
func (b *board) move(src, dst domain.Quadrant, from, to int) bool {
	si, di := src.Index(), dst.Index()
	if si < 0 || di < 0 {
		return false
	}
	if from < 0 || from >= len(b[si]) {
		return false
	}
	if si == di {
		if to < 0 || to >= len(b[si]) || from == to {
			return false
		}
		todo := b[si][from]
		b[si] = slices.Insert(slices.Delete(b[si], from, from+1), to, todo)
		return true
	}
	if to < 0 || to > len(b[di]) {
		return false
	}
	todo := b[si][from]
	b[si] = slices.Delete(b[si], from, from+1)
	b[di] = slices.Insert(b[di], to, todo)
	return true
}

func (b *board) clear() {
	for i := range b {
		b[i] = nil
	}
}
