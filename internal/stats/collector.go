package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks run statistics using lock-free atomic counters. The
// engine is the only writer; presenters read concurrently and tolerate
// values that are one tick stale.
type Collector struct {
	bytesCopied   atomic.Int64
	blocksWritten atomic.Int64
	blocksSkipped atomic.Int64
	readErrors    atomic.Int64
	writeErrors   atomic.Int64
	startTime     time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	BytesCopied   int64
	BlocksWritten int64
	BlocksSkipped int64
	ReadErrors    int64
	WriteErrors   int64
	Elapsed       time.Duration
}

func (c *Collector) AddBytesCopied(n int64)   { c.bytesCopied.Add(n) }
func (c *Collector) AddBlocksWritten(n int64) { c.blocksWritten.Add(n) }
func (c *Collector) AddBlocksSkipped(n int64) { c.blocksSkipped.Add(n) }
func (c *Collector) AddReadErrors(n int64)    { c.readErrors.Add(n) }
func (c *Collector) AddWriteErrors(n int64)   { c.writeErrors.Add(n) }

// BytesCopied returns the running byte total.
func (c *Collector) BytesCopied() int64 { return c.bytesCopied.Load() }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		BytesCopied:   c.bytesCopied.Load(),
		BlocksWritten: c.blocksWritten.Load(),
		BlocksSkipped: c.blocksSkipped.Load(),
		ReadErrors:    c.readErrors.Load(),
		WriteErrors:   c.writeErrors.Load(),
		Elapsed:       c.Elapsed(),
	}
}

// StartTime returns the time the collector was created.
func (c *Collector) StartTime() time.Time { return c.startTime }

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// Throughput returns the average bytes/sec since start, or 0 when no time
// has elapsed.
func (s Snapshot) Throughput() float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.BytesCopied) / secs
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"bytes=%d blocks=%d skipped=%d read_errors=%d write_errors=%d",
		s.BytesCopied, s.BlocksWritten, s.BlocksSkipped, s.ReadErrors, s.WriteErrors,
	)
}
