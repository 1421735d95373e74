package sim

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStart_TicksUntilStopped(t *testing.T) {
	var ticks atomic.Int64
	h := Start(context.Background(), 5*time.Millisecond, func(time.Time) {
		ticks.Add(1)
	})

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	h.Stop()
	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load(), "no ticks after Stop returns")
}

func TestHandle_StopIsIdempotent(t *testing.T) {
	h := Start(context.Background(), time.Hour, func(time.Time) {})

	assert.NotPanics(t, func() {
		h.Stop()
		h.Stop()
		h.Stop()
	})

	select {
	case <-h.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}

	var nilHandle *Handle
	assert.NotPanics(t, nilHandle.Stop)
}

func TestStart_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := Start(ctx, time.Hour, func(time.Time) {})

	cancel()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("clock did not exit after context cancellation")
	}
	h.Stop()
}

func TestStart_TicksDoNotOverlap(t *testing.T) {
	var active, overlaps atomic.Int64
	h := Start(context.Background(), time.Millisecond, func(time.Time) {
		if active.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(3 * time.Millisecond)
		active.Add(-1)
	})
	time.Sleep(30 * time.Millisecond)
	h.Stop()

	assert.Zero(t, overlaps.Load())
}

func TestStart_DefaultPeriod(t *testing.T) {
	var ticks atomic.Int64
	h := Start(context.Background(), 0, func(time.Time) { ticks.Add(1) })
	time.Sleep(20 * time.Millisecond)
	h.Stop()

	assert.Zero(t, ticks.Load(), "zero period should fall back to the 2s default")
}
