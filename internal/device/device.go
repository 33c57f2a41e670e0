// Package device opens the source and destination handles of a run and
// provides the platform-specific pieces the engine relies on: destination
// size queries for files and block devices, and durable flushes.
package device

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
)

// SyncMode selects what Destination.Flush does after every block.
type SyncMode int

const (
	SyncNone SyncMode = iota // no-op; writes go straight to the page cache
	SyncData                 // fdatasync(2)
	SyncFull                 // fsync(2)
)

func (m SyncMode) String() string {
	switch m {
	case SyncNone:
		return "none"
	case SyncData:
		return "fdatasync"
	case SyncFull:
		return "fsync"
	default:
		return "unknown"
	}
}

// RandomPrefix selects the built-in pseudo-random source, optionally
// followed by ":SEED".
const RandomPrefix = "random"

// OpenSource opens the input named by spec:
//
//	"" or "-"       standard input
//	random[:SEED]   endless seeded pseudo-random bytes
//	anything else   a file or device path, opened read-only
func OpenSource(spec string) (io.ReadCloser, error) {
	switch {
	case spec == "" || spec == "-":
		return os.Stdin, nil
	case spec == RandomPrefix || strings.HasPrefix(spec, RandomPrefix+":"):
		seed := rand.Uint64()
		if s, ok := strings.CutPrefix(spec, RandomPrefix+":"); ok {
			n, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid random seed %q: %w", s, err)
			}
			seed = n
		}
		return io.NopCloser(NewRandomReader(seed)), nil
	}

	f, err := os.Open(spec)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", spec, err)
	}
	adviseSequential(f)
	return f, nil
}

// Destination is a writable, fixed-size output opened without truncation.
type Destination struct {
	*os.File
	mode SyncMode
}

// OpenDestination opens an existing file or device for writing. Standard
// output is used for "" and "-". The file is never created or truncated.
func OpenDestination(path string, mode SyncMode) (*Destination, error) {
	if path == "" || path == "-" {
		return &Destination{File: os.Stdout, mode: mode}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open output %s (file must exist): %w", path, err)
	}
	return &Destination{File: f, mode: mode}, nil
}

// Size returns the destination size in bytes. Regular files report their
// length; block devices are queried through the kernel where possible and
// fall back to seeking to the end.
func (d *Destination) Size() (int64, error) {
	info, err := d.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat output: %w", err)
	}
	if info.Mode().IsRegular() {
		return info.Size(), nil
	}
	if info.Mode()&os.ModeDevice != 0 {
		if n, err := blockDeviceSize(d.File); err == nil {
			return n, nil
		}
	}
	return seekSize(d.File)
}

// Flush makes the last write durable according to the sync mode.
func (d *Destination) Flush() error {
	switch d.mode {
	case SyncData:
		return fdatasync(d.File)
	case SyncFull:
		return d.Sync()
	default:
		return nil
	}
}

// seekSize measures s by seeking to its end and restores the position.
func seekSize(s io.Seeker) (int64, error) {
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("seek output: %w", err)
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek output: %w", err)
	}
	if _, err := s.Seek(cur, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek output: %w", err)
	}
	return end, nil
}
