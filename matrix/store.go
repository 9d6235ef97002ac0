// Package matrix holds the four quadrant sequences of the Eisenhower matrix
// and is the only place they are mutated.
package matrix

import (
	"context"
	"slices"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"eisenhower-matrix/domain"
)

const defaultWriteTimeout = 5 * time.Second

// Persister loads and stores full matrix snapshots.
type Persister interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, s domain.Snapshot) error
	Clear(ctx context.Context) error
}

// Option customises a Store.
type Option func(*options)

type options struct {
	writeTimeout time.Duration
	now          func() time.Time
}

// WithWriteTimeout bounds each background save or clear.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

// WithClock overrides the clock used to derive todo ids.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Store owns the matrix. Every operation is atomic with respect to the
// others; persistence happens in the background after each change.
type Store struct {
	mu     sync.Mutex
	board  board
	ids    idSource
	writer *snapshotWriter
	logger *log.Logger
}

// New hydrates a Store from p. A failed load is logged and the store starts
// empty.
func New(ctx context.Context, p Persister, logger *log.Logger, opts ...Option) *Store {
	if p == nil {
		panic("matrix.New: persister is nil")
	}
	if logger == nil {
		panic("matrix.New: logger is nil")
	}
	o := options{writeTimeout: defaultWriteTimeout, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	snapshot, err := p.Load(ctx)
	if err != nil {
		logger.WithError(err).Warn("unable to load matrix; starting empty")
		snapshot = domain.EmptySnapshot()
	}

	s := &Store{
		board:  newBoard(snapshot),
		logger: logger,
		writer: newSnapshotWriter(p, logger, o.writeTimeout),
	}
	s.ids.now = o.now
	s.ids.seed(snapshot.MaxID())
	logger.WithField("todos", snapshot.Normalize().Len()).Info("matrix loaded")
	return s
}

// mutate runs fn under the lock and queues a save when fn reports a change.
func (s *Store) mutate(fn func(b *board) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !fn(&s.board) {
		return false
	}
	s.writer.save(s.board.snapshot())
	return true
}

// Todos returns the ordered todos of q.
func (s *Store) Todos(q domain.Quadrant) []domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !q.Valid() {
		return nil
	}
	todos := slices.Clone(s.board.list(q))
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos
}

// Snapshot returns a copy of all four quadrants.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.snapshot()
}

// Get returns the todo with the given id wherever it lives.
func (s *Store) Get(id int64) (domain.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.board.find(id)
	if !ok {
		return domain.Todo{}, false
	}
	return s.board.list(loc.Quadrant)[loc.Index], true
}

// Add appends a new todo to q. Blank text or an unknown quadrant is a no-op.
func (s *Store) Add(q domain.Quadrant, text, description, dueDate string) (domain.Todo, bool) {
	if !domain.ValidText(text) {
		s.logger.WithField("quadrant", q).Debug("rejected todo with empty text")
		return domain.Todo{}, false
	}
	var created domain.Todo
	ok := s.mutate(func(b *board) bool {
		if !q.Valid() {
			return false
		}
		created = domain.Todo{
			ID:          s.ids.next(),
			Text:        text,
			Description: description,
			DueDate:     dueDate,
		}
		return b.append(q, created)
	})
	return created, ok
}

// Toggle flips the completed flag of a todo in q.
func (s *Store) Toggle(q domain.Quadrant, id int64) bool {
	return s.mutate(func(b *board) bool {
		return b.update(q, id, func(t *domain.Todo) bool {
			t.Completed = !t.Completed
			return true
		})
	})
}

// ToggleExpanded flips whether the todo's details are shown.
func (s *Store) ToggleExpanded(q domain.Quadrant, id int64) bool {
	return s.mutate(func(b *board) bool {
		return b.update(q, id, func(t *domain.Todo) bool {
			t.Expanded = !t.Expanded
			return true
		})
	})
}

// Delete permanently removes a todo from q.
func (s *Store) Delete(q domain.Quadrant, id int64) bool {
	return s.mutate(func(b *board) bool {
		return b.remove(q, id)
	})
}

// Edit applies a partial update. An update whose text is present but blank
// is rejected without touching the todo.
func (s *Store) Edit(q domain.Quadrant, id int64, u domain.Update) (domain.Todo, bool) {
	if u.Text != nil && !domain.ValidText(*u.Text) {
		s.logger.WithFields(log.Fields{"quadrant": q, "id": id}).Debug("rejected edit with empty text")
		return domain.Todo{}, false
	}
	var edited domain.Todo
	ok := s.mutate(func(b *board) bool {
		return b.update(q, id, func(t *domain.Todo) bool {
			u.Apply(t)
			edited = *t
			return true
		})
	})
	return edited, ok
}

// Move relocates the todo at from in src to position to in dst.
func (s *Store) Move(src, dst domain.Quadrant, from, to int) bool {
	ok := s.mutate(func(b *board) bool {
		return b.move(src, dst, from, to)
	})
	if !ok {
		s.logger.WithFields(log.Fields{
			"source":      src,
			"destination": dst,
			"from":        from,
			"to":          to,
		}).Debug("move ignored")
	}
	return ok
}

// Reorder is an alias of Move kept for callers that only reorder.
func (s *Store) Reorder(src, dst domain.Quadrant, from, to int) bool {
	return s.Move(src, dst, from, to)
}

// Find locates a todo by id, scanning quadrants in canonical order.
func (s *Store) Find(id int64) (domain.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.find(id)
}

// Clear empties every quadrant and erases the persisted snapshot.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.clear()
	s.writer.clear()
	s.logger.Info("matrix cleared")
}

// Close flushes pending writes. The store must not be mutated afterwards.
func (s *Store) Close(ctx context.Context) error {
	return s.writer.close(ctx)
}
