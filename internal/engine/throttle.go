package engine

import (
	"context"
	"time"
)

// Throttle paces a run to an average throughput. After each block it
// compares the time the blocks written so far should have taken at the
// limit with the time actually elapsed since start, and sleeps off the
// difference. Bursts within a block are not smoothed.
type Throttle struct {
	bytesPerSec int64
	start       time.Time
	now         func() time.Time
}

// NewThrottle creates a Throttle capping throughput to bytesPerSec,
// measured from start.
func NewThrottle(bytesPerSec int64, start time.Time) *Throttle {
	return &Throttle{bytesPerSec: bytesPerSec, start: start, now: time.Now}
}

// Delay returns how long to sleep after blocks blocks of blockSize bytes.
func (t *Throttle) Delay(blocks, blockSize int64) time.Duration {
	if t.bytesPerSec <= 0 {
		return 0
	}
	expected := time.Duration(float64(blocks) * float64(blockSize) / float64(t.bytesPerSec) * float64(time.Second))
	elapsed := t.now().Sub(t.start)
	if expected <= elapsed {
		return 0
	}
	return expected - elapsed
}

// Wait sleeps for Delay(blocks, blockSize), returning early with ctx.Err()
// if ctx is cancelled.
func (t *Throttle) Wait(ctx context.Context, blocks, blockSize int64) error {
	d := t.Delay(blocks, blockSize)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
