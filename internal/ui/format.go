package ui

import (
	"fmt"
	"strings"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatBytes returns a human-readable byte count in binary units with two
// decimals, e.g. "50.00 B" or "1.50 MB".
func FormatBytes(b int64) string {
	if b < 0 {
		b = 0
	}
	val := float64(b)
	unit := 0
	for val >= 1024 && unit < len(byteUnits)-1 {
		val /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", val, byteUnits[unit])
}

// FormatRate formats a bytes-per-second rate as "<size>/s".
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return FormatBytes(0) + "/s"
	}
	return FormatBytes(int64(bytesPerSec)) + "/s"
}

// FormatCount formats an integer with comma separators.
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		b.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
