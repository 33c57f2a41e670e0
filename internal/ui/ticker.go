package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bamsammich/rdd/internal/coverage"
	"github.com/bamsammich/rdd/internal/stats"
)

// eraseLine clears from the cursor to the end of the terminal line.
const eraseLine = "\x1b[0K"

// tickerPresenter redraws bytes and throughput on a fixed interval. With a
// bitmap it also draws the coverage map above the counter.
type tickerPresenter struct {
	w        io.Writer
	stats    *stats.Collector
	bitmap   *coverage.Bitmap
	tty      bool
	interval time.Duration
	drawn    bool
}

func (p *tickerPresenter) Run(events <-chan Event) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			// The header waits for RunStarted so a run rejected by its
			// preconditions prints nothing.
			if ev.Type == RunStarted && p.bitmap != nil {
				fmt.Fprintf(p.w, "Bitarray size: %d bits (%d bytes)\n", p.bitmap.Len(), p.bitmap.Bytes())
			}
		case <-ticker.C:
			p.draw()
		}
	}
}

func (p *tickerPresenter) draw() {
	snap := p.stats.Snapshot()
	line := FormatBytes(snap.BytesCopied) + ", " + FormatRate(snap.Throughput())

	switch {
	case p.bitmap != nil:
		fmt.Fprintf(p.w, "\r%s\n%s\n", renderBitmap(p.bitmap), line)
	case p.tty:
		fmt.Fprintf(p.w, "\r%s%s", line, eraseLine)
		p.drawn = true
	default:
		fmt.Fprintln(p.w, line)
	}
}

func (p *tickerPresenter) Summary() string {
	snap := p.stats.Snapshot()
	if p.bitmap == nil {
		return liveLineBreak(p.drawn) + completionSummary(snap)
	}

	var sb strings.Builder
	sb.WriteString("Final bitarray state:\n")
	sb.WriteString(renderBitmap(p.bitmap))
	sb.WriteByte('\n')
	sb.WriteString(coverageLine(p.bitmap))
	sb.WriteByte('\n')
	sb.WriteString(completionSummary(snap))
	return sb.String()
}

func renderBitmap(b *coverage.Bitmap) string {
	return strings.TrimSuffix(b.Render(coverage.DisplayLimit), "\n")
}
