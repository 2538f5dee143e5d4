package jobs

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Superseder runs keyed tasks where scheduling a new task for a key cancels
// the in-flight predecessor for that key. It replaces client-side debouncing
// of availability checks: only the most recent check per field is allowed to
// finish.
type Superseder struct {
	mu       sync.Mutex
	inflight map[string]*entry
	seq      uint64
	logger   *zap.Logger
}

type entry struct {
	cancel context.CancelFunc
	seq    uint64
}

// NewSuperseder constructs a Superseder.
func NewSuperseder(logger *zap.Logger) *Superseder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Superseder{inflight: make(map[string]*entry), logger: logger}
}

// Run executes fn under a context that is cancelled when a newer task is
// scheduled for the same key. The call is synchronous; the returned error is
// whatever fn returns, including context.Canceled when superseded.
func (s *Superseder) Run(ctx context.Context, key string, fn func(context.Context) error) error {
	runCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if prev, ok := s.inflight[key]; ok {
		prev.cancel()
		s.logger.Debug("superseded in-flight task", zap.String("key", key))
	}
	s.seq++
	mine := &entry{cancel: cancel, seq: s.seq}
	s.inflight[key] = mine
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		if cur, ok := s.inflight[key]; ok && cur.seq == mine.seq {
			delete(s.inflight, key)
		}
		s.mu.Unlock()
	}()

	return fn(runCtx)
}
