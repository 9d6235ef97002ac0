package matrix

import (
	"sync/atomic"
	"time"
)

// idSource hands out creation-time ids in milliseconds. Ids never repeat:
// when the clock has not advanced past the last id, the next one is last+1.
type idSource struct {
	last atomic.Int64
	now  func() time.Time
}

func (s *idSource) seed(v int64) {
	for {
		last := s.last.Load()
		if v <= last || s.last.CompareAndSwap(last, v) {
			return
		}
	}
}

func (s *idSource) next() int64 {
	for {
		now := s.now().UnixMilli()
		last := s.last.Load()
		if now <= last {
			now = last + 1
		}
		if s.last.CompareAndSwap(last, now) {
			return now
		}
	}
}
