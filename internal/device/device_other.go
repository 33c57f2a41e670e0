//go:build !linux

package device

import (
	"errors"
	"os"
)

// blockDeviceSize is unsupported off Linux; callers fall back to seeking.
func blockDeviceSize(_ *os.File) (int64, error) {
	return 0, errors.New("block device size query not supported")
}

// adviseSequential is a no-op on non-Linux platforms (fadvise is Linux-only).
func adviseSequential(_ *os.File) {}

// fdatasync falls back to a full fsync where fdatasync is unavailable.
func fdatasync(f *os.File) error {
	return f.Sync()
}
