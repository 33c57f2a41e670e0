//go:build linux

package device

import (
	"os"

	"golang.org/x/sys/unix"
)

// blockDeviceSize asks the kernel for the size of a block device.
//
//nolint:gosec // G115: fd values are small non-negative integers
func blockDeviceSize(f *os.File) (int64, error) {
	n, err := unix.IoctlGetInt(int(f.Fd()), unix.BLKGETSIZE64)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

// adviseSequential hints that the source is read front to back. Errors are
// ignored as fadvise is not supported on pipes and some filesystems.
//
//nolint:gosec // G115: fd values are small non-negative integers
func adviseSequential(f *os.File) {
	//nolint:errcheck // fadvise is advisory
	unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}

//nolint:gosec // G115: fd values are small non-negative integers
func fdatasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
