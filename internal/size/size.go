package size

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidSize is returned for malformed size strings.
	ErrInvalidSize = errors.New("invalid size")
	// ErrInvalidRange is returned when a range has min > max.
	ErrInvalidRange = errors.New("invalid block size range")
)

// multipliers follows dd(1): b is a 512-byte sector, w a 4-byte word,
// k/m/g/t/p are powers of 1024.
var multipliers = map[string]int64{
	"":  1,
	"b": 512,
	"k": 1 << 10,
	"m": 1 << 20,
	"g": 1 << 30,
	"t": 1 << 40,
	"p": 1 << 50,
	"w": 4,
}

// Parse parses a human-readable size string into bytes.
// Supports: 100, 2b, 4k, 10M, 1G, 1T, 1P, 8w (case-insensitive).
func Parse(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("%w: empty size string", ErrInvalidSize)
	}

	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i < 0 {
		i = len(s)
	}
	numStr, suffix := s[:i], s[i:]
	if numStr == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	multiplier, ok := multipliers[suffix]
	if !ok {
		return 0, fmt.Errorf("%w: unknown size suffix %q", ErrInvalidSize, suffix)
	}

	n, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, s)
	}
	return n * multiplier, nil
}

// ParseRange parses either a single size ("4k") or a "min-max" range
// ("512-4k"). A single size yields min == max.
func ParseRange(s string) (lo, hi int64, err error) {
	minStr, maxStr, isRange := strings.Cut(s, "-")
	if !isRange {
		n, err := Parse(s)
		if err != nil {
			return 0, 0, err
		}
		return n, n, nil
	}

	lo, err = Parse(minStr)
	if err != nil {
		return 0, 0, err
	}
	hi, err = Parse(maxStr)
	if err != nil {
		return 0, 0, err
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("%w: min (%s) > max (%s)",
			ErrInvalidRange, strings.TrimSpace(minStr), strings.TrimSpace(maxStr))
	}
	return lo, hi, nil
}
