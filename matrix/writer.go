package matrix

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"eisenhower-matrix/domain"
)

type writeJob struct {
	snapshot domain.Snapshot
	clear    bool
}

// snapshotWriter persists snapshots off the caller's path. The mailbox holds
// at most one pending job and a newer job replaces an older one, so saves
// are last-write-wins and a handoff never blocks.
type snapshotWriter struct {
	persister Persister
	logger    *log.Logger
	timeout   time.Duration

	mu      sync.Mutex
	closing bool
	mailbox chan writeJob
	done    chan struct{}
}

func newSnapshotWriter(p Persister, logger *log.Logger, timeout time.Duration) *snapshotWriter {
	w := &snapshotWriter{
		persister: p,
		logger:    logger,
		timeout:   timeout,
		mailbox:   make(chan writeJob, 1),
		done:      make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *snapshotWriter) save(s domain.Snapshot) {
	w.handoff(writeJob{snapshot: s})
}

func (w *snapshotWriter) clear() {
	w.handoff(writeJob{clear: true})
}

func (w *snapshotWriter) handoff(job writeJob) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closing {
		w.logger.Warn("snapshot writer closed; dropping write")
		return
	}
	select {
	case <-w.mailbox:
		w.logger.Debug("superseded pending snapshot write")
	default:
	}
	w.mailbox <- job
}

func (w *snapshotWriter) run() {
	defer close(w.done)
	for job := range w.mailbox {
		w.write(job)
	}
}

func (w *snapshotWriter) write(job writeJob) {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if job.clear {
		if err := w.persister.Clear(ctx); err != nil {
			w.logger.WithError(err).Error("clear persisted matrix failed")
		}
		return
	}
	start := time.Now()
	if err := w.persister.Save(ctx, job.snapshot); err != nil {
		w.logger.WithError(err).WithField("todos", job.snapshot.Len()).Error("save matrix snapshot failed")
		return
	}
	w.logger.WithFields(log.Fields{
		"todos":   job.snapshot.Len(),
		"save_ms": float64(time.Since(start)) / float64(time.Millisecond),
	}).Debug("matrix snapshot saved")
}

// close stops accepting writes, flushes the pending job and waits for the
// worker to exit or ctx to end.
func (w *snapshotWriter) close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closing {
		w.closing = true
		close(w.mailbox)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
