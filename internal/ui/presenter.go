package ui

import (
	"io"
	"time"

	"github.com/bamsammich/rdd/internal/coverage"
	"github.com/bamsammich/rdd/internal/stats"
)

// DefaultInterval is how often the progress and bitarray levels redraw.
const DefaultInterval = time.Second

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the final summary, or "" when nothing is printed.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	ErrWriter io.Writer
	Level     StatusLevel
	Stats     *stats.Collector
	Bitmap    *coverage.Bitmap // required for StatusBitArray
	IsTTY     bool
	Interval  time.Duration // 0 = DefaultInterval
}

// NewPresenter creates the presenter for cfg.Level. A bitarray level
// without a bitmap degrades to plain progress.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.ErrWriter == nil {
		cfg.ErrWriter = io.Discard
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	switch cfg.Level {
	case StatusNone:
		return &quietPresenter{}
	case StatusNoxfer:
		return newNoxferPresenter(cfg.ErrWriter, cfg.Stats)
	case StatusBitArray:
		if cfg.Bitmap != nil {
			return &tickerPresenter{
				w:        cfg.ErrWriter,
				stats:    cfg.Stats,
				bitmap:   cfg.Bitmap,
				tty:      cfg.IsTTY,
				interval: cfg.Interval,
			}
		}
	case StatusProgress:
	}
	return &tickerPresenter{
		w:        cfg.ErrWriter,
		stats:    cfg.Stats,
		tty:      cfg.IsTTY,
		interval: cfg.Interval,
	}
}
