package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

var (
	errInjectedRead  = errors.New("injected read error")
	errInjectedWrite = errors.New("injected write error")
	errIllegalSeek   = errors.New("illegal seek")
)

// write records one Write call on a memDest.
type write struct {
	off int64
	n   int
}

// memDest is an in-memory io.WriteSeeker of fixed initial size that records
// every write. The first failWrites writes fail.
type memDest struct {
	data       []byte
	pos        int64
	writes     []write
	failWrites int
	flushes    int
}

func newMemDest(size int) *memDest {
	return &memDest{data: make([]byte, size)}
}

func (m *memDest) Seek(off int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		off += m.pos
	case io.SeekEnd:
		off += int64(len(m.data))
	default:
		return 0, errors.New("bad whence")
	}
	if off < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = off
	return off, nil
}

func (m *memDest) Write(p []byte) (int, error) {
	if m.failWrites > 0 {
		m.failWrites--
		return 0, errInjectedWrite
	}
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		m.data = append(m.data, make([]byte, end-int64(len(m.data)))...)
	}
	copy(m.data[m.pos:], p)
	m.writes = append(m.writes, write{off: m.pos, n: len(p)})
	m.pos = end
	return len(p), nil
}

func (m *memDest) Flush() error {
	m.flushes++
	return nil
}

// failingReader always fails.
type failingReader struct {
	err error
}

func (f *failingReader) Read([]byte) (int, error) { return 0, f.err }

// flakyReader is a seekable reader whose first failReads Read calls fail
// without consuming anything.
type flakyReader struct {
	r         *bytes.Reader
	failReads int
}

func newFlakyReader(data []byte, failReads int) *flakyReader {
	return &flakyReader{r: bytes.NewReader(data), failReads: failReads}
}

func (f *flakyReader) Read(p []byte) (int, error) {
	if f.failReads > 0 {
		f.failReads--
		return 0, errInjectedRead
	}
	return f.r.Read(p)
}

func (f *flakyReader) Seek(off int64, whence int) (int64, error) {
	return f.r.Seek(off, whence)
}

// streamOnly hides any Seek method of the wrapped reader.
type streamOnly struct {
	io.Reader
}

// pipeReader has a Seek method that always fails, like a pipe on stdin.
type pipeReader struct {
	io.Reader
}

func (pipeReader) Seek(int64, int) (int64, error) { return 0, errIllegalSeek }

// repeatReader yields b forever.
type repeatReader struct {
	b byte
}

func (r repeatReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
	}
	return len(p), nil
}

// hashReader returns the hex BLAKE3 digest of everything r yields.
func hashReader(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hexDigest(h), nil
}
