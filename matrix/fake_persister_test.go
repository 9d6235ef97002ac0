package matrix

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"eisenhower-matrix/domain"
)

// fakePersister keeps the last saved snapshot in memory. slot is nil when
// nothing is persisted.
type fakePersister struct {
	mu      sync.Mutex
	slot    domain.Snapshot
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func (f *fakePersister) Load(context.Context) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.slot == nil {
		return domain.EmptySnapshot(), nil
	}
	return cloneSnapshot(f.slot), nil
}

func (f *fakePersister) Save(_ context.Context, s domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.slot = cloneSnapshot(s)
	return nil
}

func (f *fakePersister) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.slot = nil
	return nil
}

func (f *fakePersister) Slot() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slot
}

func (f *fakePersister) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func cloneSnapshot(s domain.Snapshot) domain.Snapshot {
	out := make(domain.Snapshot, len(s))
	for q, todos := range s {
		out[q] = slices.Clone(todos)
	}
	return out
}

// frozenClock always reports the same instant so every id comes from the
// collision path.
func frozenClock() time.Time {
	return time.UnixMilli(1_700_000_000_000)
}

func newTestStore(t *testing.T, p *fakePersister) (*Store, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	s := New(context.Background(), p, logger, WithClock(frozenClock))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, hook
}

func closeStore(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		t.Fatalf("close store: %v", err)
	}
}
