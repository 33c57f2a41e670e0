package ui

import (
	"fmt"

	"github.com/bamsammich/rdd/internal/coverage"
	"github.com/bamsammich/rdd/internal/stats"
)

// completionSummary builds the final summary line from a snapshot.
// Format: 1.50 MB copied, 12.00 MB/s, 1,024 blocks[, 2 read errors, 0 write errors]
func completionSummary(snap stats.Snapshot) string {
	base := fmt.Sprintf("%s copied, %s, %s blocks",
		FormatBytes(snap.BytesCopied),
		FormatRate(snap.Throughput()),
		FormatCount(snap.BlocksWritten),
	)
	if snap.ReadErrors > 0 || snap.WriteErrors > 0 {
		base += fmt.Sprintf(", %s read errors, %s write errors",
			FormatCount(snap.ReadErrors), FormatCount(snap.WriteErrors))
	}
	return base
}

// coverageLine reports how many distinct blocks were written at least once.
func coverageLine(b *coverage.Bitmap) string {
	total := b.Len()
	touched := b.Touched()
	pct := 0.0
	if total > 0 {
		pct = float64(touched) / float64(total) * 100
	}
	return fmt.Sprintf("coverage %d/%d blocks (%.1f%%)", touched, total, pct)
}
