package ui

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/bamsammich/rdd/internal/stats"
)

// statusLineInterval bounds how often the noxfer byte counter redraws.
const statusLineInterval = 100 * time.Millisecond

// noxferPresenter overwrites a single byte counter on the error stream,
// redrawing at most once per statusLineInterval as blocks land.
type noxferPresenter struct {
	w       io.Writer
	stats   *stats.Collector
	limiter *rate.Sometimes
	drawn   bool
}

func newNoxferPresenter(w io.Writer, st *stats.Collector) *noxferPresenter {
	return &noxferPresenter{
		w:       w,
		stats:   st,
		limiter: &rate.Sometimes{Interval: statusLineInterval},
	}
}

func (p *noxferPresenter) Run(events <-chan Event) error {
	for ev := range events {
		if ev.Type != BlockWritten {
			continue
		}
		p.limiter.Do(p.draw)
	}
	return nil
}

func (p *noxferPresenter) draw() {
	fmt.Fprintf(p.w, "\r%s", FormatBytes(p.stats.BytesCopied()))
	p.drawn = true
}

func (p *noxferPresenter) Summary() string {
	return liveLineBreak(p.drawn) + completionSummary(p.stats.Snapshot())
}

// liveLineBreak terminates an in-place status line before the summary.
func liveLineBreak(drawn bool) string {
	if drawn {
		return "\n"
	}
	return ""
}
