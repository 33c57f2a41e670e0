package device

import (
	"encoding/binary"
	"math/rand/v2"
)

// RandomReader is an endless io.Reader of pseudo-random bytes. The same
// seed always yields the same stream, which makes stress runs repeatable.
type RandomReader struct {
	src  *rand.PCG
	tail [8]byte
	left int // unread bytes at the end of tail
}

// NewRandomReader returns a RandomReader seeded with seed.
func NewRandomReader(seed uint64) *RandomReader {
	return &RandomReader{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// Read fills p completely and never returns an error.
func (r *RandomReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) && r.left > 0 {
		p[n] = r.tail[8-r.left]
		r.left--
		n++
	}
	for len(p)-n >= 8 {
		binary.LittleEndian.PutUint64(p[n:], r.src.Uint64())
		n += 8
	}
	if n < len(p) {
		binary.LittleEndian.PutUint64(r.tail[:], r.src.Uint64())
		r.left = 8
		for n < len(p) {
			p[n] = r.tail[8-r.left]
			r.left--
			n++
		}
	}
	return n, nil
}
