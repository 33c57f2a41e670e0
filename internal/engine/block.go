package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
)

// readOutcome classifies a block read.
type readOutcome int

const (
	readFull   readOutcome = iota // buffer filled
	readShort                     // end of stream after some bytes
	readEOF                       // end of stream, nothing left
	readFailed                    // I/O error other than end of stream
)

// chooseBlockSize returns lo when the size is fixed and a uniform size in
// [lo, hi] otherwise.
func chooseBlockSize(rng *rand.Rand, lo, hi int64) int64 {
	if lo >= hi {
		return lo
	}
	return lo + rng.Int64N(hi-lo+1)
}

// chooseOffset returns a uniform offset in [0, size-n], so a block of n
// bytes written there ends at or before size. n must not exceed size.
func chooseOffset(rng *rand.Rand, size, n int64) int64 {
	return rng.Int64N(size - n + 1)
}

// readBlock fills buf from src. When the stream ends early it makes one
// more short read for anything still pending; the bytes obtained are
// returned, zero-padded to len(buf) when zeroFill is set.
func readBlock(src io.Reader, buf []byte, zeroFill bool) (int64, readOutcome, error) {
	n, err := io.ReadFull(src, buf)
	switch {
	case err == nil:
		return int64(len(buf)), readFull, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
	default:
		return int64(n), readFailed, err
	}

	m, err := src.Read(buf[n:])
	n += m
	if err != nil && !errors.Is(err, io.EOF) {
		return int64(n), readFailed, err
	}
	if n == 0 {
		return 0, readEOF, nil
	}
	if zeroFill {
		clear(buf[n:])
		return int64(len(buf)), readShort, nil
	}
	return int64(n), readShort, nil
}

// skipInput advances src by n bytes before the first read. Seekable
// sources seek; pipes and other streams have the bytes read and discarded.
// Running out of input while skipping is not an error: the first read then
// reports end of stream.
func skipInput(src io.Reader, n int64) error {
	if s, ok := src.(io.Seeker); ok {
		if _, err := s.Seek(n, io.SeekCurrent); err == nil {
			return nil
		}
	}
	if _, err := io.CopyN(io.Discard, src, n); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("discard %d bytes: %w", n, err)
	}
	return nil
}

// skipPastError moves the source position n bytes forward after a failed
// read and returns the new position. Streams that cannot seek, including
// pipes whose Seek fails, have already consumed whatever the failed read
// took and report -1.
func skipPastError(src io.Reader, n int64) int64 {
	s, ok := src.(io.Seeker)
	if !ok {
		return -1
	}
	pos, err := s.Seek(n, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return pos
}
