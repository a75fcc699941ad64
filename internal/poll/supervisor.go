package poll

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"ohmg/internal/logging"
)

// DefaultInterval is the refresh period while server-side work is in flight.
const DefaultInterval = 4 * time.Second

// RefreshFunc fetches the current snapshot and applies it to the session
// store. The supervisor never retries a failed tick; the next tick is the
// retry.
type RefreshFunc func(ctx context.Context) error

// Supervisor starts and stops the session's only repeating refresh timer.
// It is the sole source of unsolicited network traffic in the client.
type Supervisor struct {
	interval time.Duration
	refresh  RefreshFunc
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// NewSupervisor creates a supervisor in the idle state. A non-positive
// interval falls back to DefaultInterval.
func NewSupervisor(interval time.Duration, refresh RefreshFunc, logger *slog.Logger) *Supervisor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Supervisor{interval: interval, refresh: refresh, logger: logger}
}

// Observe feeds the current auto-reload condition into the state machine.
// Only edges change state: a true observation while idle starts the timer,
// a false observation while polling cancels it, and repeated identical
// observations do nothing. Safe to call from a refresh callback.
func (s *Supervisor) Observe(autoReload bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	switch {
	case autoReload && s.cancel == nil:
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		s.cancel = cancel
		s.done = done
		go s.run(ctx, done)
		s.logger.Debug("polling started", logging.Duration("interval", s.interval))
	case !autoReload && s.cancel != nil:
		s.cancel()
		s.cancel = nil
		s.logger.Debug("polling stopped")
	}
}

// Polling reports whether the timer is currently running.
func (s *Supervisor) Polling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Close cancels any running timer and waits for its goroutine to exit.
// The supervisor ignores all observations afterwards.
func (s *Supervisor) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (s *Supervisor) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.refresh == nil {
				continue
			}
			if err := s.refresh(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				s.logger.Warn("background refresh failed", logging.Error(err))
			}
		}
	}
}
