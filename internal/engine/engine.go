package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bamsammich/rdd/internal/coverage"
	"github.com/bamsammich/rdd/internal/event"
	"github.com/bamsammich/rdd/internal/stats"
)

var (
	// ErrInvalidConfig is returned when Config fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrEmptyDestination is returned when the destination has zero size.
	ErrEmptyDestination = errors.New("destination has zero size, cannot write to random positions")
	// ErrBlockTooLarge is returned when the minimum block size exceeds the
	// destination size.
	ErrBlockTooLarge = errors.New("block size is larger than destination size, cannot write to random positions")
)

// Config describes a randomized copy run. It is not modified by Run.
type Config struct {
	Src io.Reader
	Dst io.WriteSeeker

	BlockSizeMin int64
	BlockSizeMax int64
	MaxBlocks    int64 // 0 = until the source is exhausted
	SkipBlocks   int64 // in units of max(BlockSizeMin, BlockSizeMax)
	SpeedLimit   int64 // bytes/sec, 0 = unlimited

	NoError bool // keep going after source/destination I/O errors
	Sync    bool // zero-fill short or unreadable blocks

	Digest bool // compute a BLAKE3 digest of the written stream

	Rand   *rand.Rand       // nil = randomly seeded
	Bitmap *coverage.Bitmap // nil = no coverage tracking
	Stats  *stats.Collector // nil = private collector
	Events chan<- event.Event
}

// Result is the outcome of a run.
type Result struct {
	Blocks int64
	Bytes  int64
	Digest string // hex BLAKE3, empty unless Config.Digest
	Stats  stats.Snapshot
	Err    error
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
}

func (cfg Config) validate() error {
	switch {
	case cfg.Src == nil:
		return fmt.Errorf("%w: no source", ErrInvalidConfig)
	case cfg.Dst == nil:
		return fmt.Errorf("%w: no destination", ErrInvalidConfig)
	case cfg.BlockSizeMin <= 0:
		return fmt.Errorf("%w: block size must be positive", ErrInvalidConfig)
	case cfg.BlockSizeMin > cfg.BlockSizeMax:
		return fmt.Errorf("%w: min block size %d > max %d",
			ErrInvalidConfig, cfg.BlockSizeMin, cfg.BlockSizeMax)
	case cfg.MaxBlocks < 0, cfg.SkipBlocks < 0, cfg.SpeedLimit < 0:
		return fmt.Errorf("%w: count, skip and speed must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Run copies randomly sized blocks from cfg.Src to random offsets of
// cfg.Dst until the source is exhausted, MaxBlocks is reached, a fatal I/O
// error occurs or ctx is cancelled. It blocks until done.
func Run(ctx context.Context, cfg Config) Result {
	if err := cfg.validate(); err != nil {
		return Result{Err: err}
	}

	dstSize, err := DestinationSize(cfg.Dst)
	if err != nil {
		return Result{Err: err}
	}
	if dstSize == 0 {
		return Result{Err: ErrEmptyDestination}
	}
	if cfg.BlockSizeMin > dstSize {
		return Result{Err: fmt.Errorf("%w (%d > %d)", ErrBlockTooLarge, cfg.BlockSizeMin, dstSize)}
	}

	if cfg.SkipBlocks > 0 {
		n := cfg.SkipBlocks * max(cfg.BlockSizeMin, cfg.BlockSizeMax)
		if err := skipInput(cfg.Src, n); err != nil {
			return Result{Err: fmt.Errorf("skip input: %w", err)}
		}
	}

	r := newRun(ctx, cfg, dstSize)
	slog.Debug("starting randomized copy",
		"dst_size", dstSize,
		"bs_min", cfg.BlockSizeMin,
		"bs_max", r.maxBlock,
		"count", cfg.MaxBlocks,
		"speed", cfg.SpeedLimit,
		"noerror", cfg.NoError,
		"sync", cfg.Sync,
	)
	r.emit(event.Event{Type: event.RunStarted, Total: dstSize})
	return r.loop()
}

// run holds the mutable state of one Run call.
type run struct {
	ctx      context.Context
	cfg      Config
	dstSize  int64
	maxBlock int64
	rng      *rand.Rand
	stats    *stats.Collector
	digest   *blake3.Hasher
	throttle *Throttle
	buf      []byte
	blocks   int64
}

func newRun(ctx context.Context, cfg Config, dstSize int64) *run {
	r := &run{
		ctx:     ctx,
		cfg:     cfg,
		dstSize: dstSize,
		rng:     cfg.Rand,
		stats:   cfg.Stats,
	}
	if r.rng == nil {
		r.rng = NewRand(rand.Uint64())
	}
	if r.stats == nil {
		r.stats = stats.NewCollector()
	}
	// Blocks never exceed the destination so every write fits.
	r.maxBlock = min(cfg.BlockSizeMax, dstSize)
	r.buf = make([]byte, r.maxBlock)
	if cfg.Digest {
		r.digest = blake3.New()
	}
	if cfg.SpeedLimit > 0 {
		r.throttle = NewThrottle(cfg.SpeedLimit, r.stats.StartTime())
	}
	return r
}

//nolint:gocyclo // main loop dispatches every read/write outcome in one place
func (r *run) loop() Result {
	for {
		if err := r.ctx.Err(); err != nil {
			return r.result(err)
		}
		if r.cfg.MaxBlocks > 0 && r.blocks >= r.cfg.MaxBlocks {
			return r.result(nil)
		}

		chunk := chooseBlockSize(r.rng, r.cfg.BlockSizeMin, r.maxBlock)
		buf := r.buf[:chunk]

		n, outcome, err := readBlock(r.cfg.Src, buf, r.cfg.Sync)
		switch outcome {
		case readEOF:
			r.emit(event.Event{Type: event.InputExhausted})
			return r.result(nil)

		case readFailed:
			if !r.cfg.NoError {
				return r.result(fmt.Errorf("read input: %w", err))
			}
			r.stats.AddReadErrors(1)
			slog.Warn("input error (continuing)", "error", err, "block_size", chunk)
			r.emit(event.Event{Type: event.ReadFailed, Size: chunk, Error: err})

			if !r.cfg.Sync {
				pos := skipPastError(r.cfg.Src, chunk)
				r.stats.AddBlocksSkipped(1)
				r.emit(event.Event{Type: event.ReadSkipped, Offset: pos, Size: chunk})
				continue
			}
			clear(buf)
			n = chunk

		case readFull, readShort:
		}

		data := buf[:n]
		off := chooseOffset(r.rng, r.dstSize, n)

		if err := r.writeBlock(data, off); err != nil {
			if !r.cfg.NoError {
				return r.result(err)
			}
			r.stats.AddWriteErrors(1)
			slog.Warn("output error (continuing)", "error", err, "offset", off, "size", n)
			r.emit(event.Event{Type: event.WriteFailed, Block: r.blocks + 1, Offset: off, Size: n, Error: err})
			continue
		}

		if r.cfg.Bitmap != nil {
			r.cfg.Bitmap.Flip(uint64(off / r.cfg.BlockSizeMin))
		}
		if r.digest != nil {
			_, _ = r.digest.Write(data) //nolint:errcheck // hash writes never fail
		}

		r.blocks++
		r.stats.AddBytesCopied(n)
		r.stats.AddBlocksWritten(1)
		r.emit(event.Event{Type: event.BlockWritten, Block: r.blocks, Offset: off, Size: n})

		if r.throttle != nil {
			if err := r.throttle.Wait(r.ctx, r.blocks, chunk); err != nil {
				return r.result(err)
			}
		}
	}
}

// writeBlock seeks the destination to off, writes data and flushes.
func (r *run) writeBlock(data []byte, off int64) error {
	if _, err := r.cfg.Dst.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek output to %d: %w", off, err)
	}
	if _, err := r.cfg.Dst.Write(data); err != nil {
		return fmt.Errorf("write output at %d: %w", off, err)
	}
	if f, ok := r.cfg.Dst.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush output: %w", err)
		}
	}
	return nil
}

// emit delivers ev unless there is no listener or the run is cancelled.
func (r *run) emit(ev event.Event) {
	if r.cfg.Events == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case r.cfg.Events <- ev:
	case <-r.ctx.Done():
	}
}

func (r *run) result(err error) Result {
	res := Result{
		Blocks: r.blocks,
		Bytes:  r.stats.BytesCopied(),
		Stats:  r.stats.Snapshot(),
		Err:    err,
	}
	if r.digest != nil {
		res.Digest = hexDigest(r.digest)
	}
	return res
}

// DestinationSize reports the size of dst, using its Size method when it
// has one and seeking to the end otherwise. The position is restored.
func DestinationSize(dst io.Seeker) (int64, error) {
	if s, ok := dst.(interface{ Size() (int64, error) }); ok {
		n, err := s.Size()
		if err != nil {
			return 0, fmt.Errorf("query output size: %w", err)
		}
		return n, nil
	}
	cur, err := dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("query output size: %w", err)
	}
	end, err := dst.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("query output size: %w", err)
	}
	if _, err := dst.Seek(cur, io.SeekStart); err != nil {
		return 0, fmt.Errorf("query output size: %w", err)
	}
	return end, nil
}
