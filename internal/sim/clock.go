package sim

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the simulation tick period.
const DefaultInterval = 2 * time.Second

// Handle controls a running clock started with Start.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start calls onTick every period on a single goroutine until ctx is
// cancelled or the returned handle is stopped. Ticks never overlap.
// A period <= 0 uses DefaultInterval.
func Start(ctx context.Context, period time.Duration, onTick func(time.Time)) *Handle {
	if period <= 0 {
		period = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				// Stop may race the ticker; prefer stopping.
				if ctx.Err() != nil {
					return
				}
				onTick(now)
			}
		}
	}()

	return h
}

// Stop cancels the clock and waits for any in-flight tick to finish.
// Safe to call more than once and on a nil handle. Calling Stop from
// inside onTick deadlocks; cancel the parent context instead.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the clock goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
