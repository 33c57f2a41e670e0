// Package coverage records which destination blocks a randomized copy has
// written to.
//
// A Bitmap keeps two views of the same writes. The toggle bits flip on every
// write, so a block that is revisited flickers between set and clear in the
// rendering. The touched set only ever grows and answers how much of the
// destination has been written at least once.
package coverage

import (
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"
)

const (
	// LineWidth is the number of cells per rendered line.
	LineWidth = 64
	// DisplayLimit caps the number of cells rendered regardless of size.
	DisplayLimit = 512
)

// Bitmap is a fixed-size, mutex-guarded bit vector with one bit per block.
type Bitmap struct {
	mu      sync.Mutex
	bits    []byte
	n       uint64
	touched *roaring.Bitmap
}

// New creates a Bitmap holding n bits, all clear.
func New(n uint64) *Bitmap {
	return &Bitmap{
		bits:    make([]byte, (n+7)/8),
		n:       n,
		touched: roaring.New(),
	}
}

// BitsFor returns the number of blocks of blockSize needed to cover size
// bytes, rounding up.
func BitsFor(size, blockSize int64) uint64 {
	if size <= 0 || blockSize <= 0 {
		return 0
	}
	return uint64((size + blockSize - 1) / blockSize)
}

// Len returns the number of bits.
func (b *Bitmap) Len() uint64 { return b.n }

// Bytes returns the size of the backing buffer in bytes.
func (b *Bitmap) Bytes() int { return len(b.bits) }

// Flip toggles bit i and marks block i as touched. Out-of-range indexes are
// ignored.
func (b *Bitmap) Flip(i uint64) {
	if i >= b.n {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bits[i/8] ^= 1 << (i % 8)
	// roaring is 32-bit; larger indexes only lose the touched count.
	if i <= uint64(^uint32(0)) {
		b.touched.Add(uint32(i))
	}
}

// Get reports whether bit i is set.
func (b *Bitmap) Get(i uint64) bool {
	if i >= b.n {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bits[i/8]&(1<<(i%8)) != 0
}

// Touched returns how many distinct blocks have been flipped at least once.
func (b *Bitmap) Touched() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.touched.GetCardinality()
}

// Render draws the first min(Len, maxBits, DisplayLimit) bits as '#' (set)
// or '.' (clear), breaking the line after every LineWidth cells.
func (b *Bitmap) Render(maxBits int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.n
	if maxBits >= 0 && uint64(maxBits) < count {
		count = uint64(maxBits)
	}
	if count > DisplayLimit {
		count = DisplayLimit
	}

	var sb strings.Builder
	sb.Grow(int(count + count/LineWidth))
	for i := range count {
		if b.bits[i/8]&(1<<(i%8)) != 0 {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('.')
		}
		if (i+1)%LineWidth == 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
