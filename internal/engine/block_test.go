package engine

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseBlockSize(t *testing.T) {
	t.Parallel()

	t.Run("fixed", func(t *testing.T) {
		t.Parallel()
		rng := NewRand(1)
		for range 100 {
			assert.Equal(t, int64(512), chooseBlockSize(rng, 512, 512))
		}
	})

	t.Run("within range", func(t *testing.T) {
		t.Parallel()
		rng := NewRand(2)
		seen := map[int64]bool{}
		for range 5000 {
			n := chooseBlockSize(rng, 10, 20)
			require.GreaterOrEqual(t, n, int64(10))
			require.LessOrEqual(t, n, int64(20))
			seen[n] = true
		}
		// Both bounds are reachable.
		assert.True(t, seen[10])
		assert.True(t, seen[20])
		assert.Len(t, seen, 11)
	})
}

func TestChooseOffset(t *testing.T) {
	t.Parallel()

	rng := NewRand(3)
	for range 5000 {
		size := 1 + rng.Int64N(4096)
		n := 1 + rng.Int64N(size)
		off := chooseOffset(rng, size, n)
		require.GreaterOrEqual(t, off, int64(0))
		require.LessOrEqual(t, off+n, size)
	}

	// A block as large as the destination can only go at 0.
	assert.Equal(t, int64(0), chooseOffset(rng, 100, 100))
}

func TestReadBlock(t *testing.T) {
	t.Parallel()

	t.Run("full", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, 4)
		n, outcome, err := readBlock(strings.NewReader("abcdef"), buf, false)
		require.NoError(t, err)
		assert.Equal(t, readFull, outcome)
		assert.Equal(t, int64(4), n)
		assert.Equal(t, "abcd", string(buf))
	})

	t.Run("short without zero fill", func(t *testing.T) {
		t.Parallel()
		buf := bytes.Repeat([]byte{0xFF}, 8)
		n, outcome, err := readBlock(strings.NewReader("abc"), buf, false)
		require.NoError(t, err)
		assert.Equal(t, readShort, outcome)
		assert.Equal(t, int64(3), n)
		assert.Equal(t, "abc", string(buf[:n]))
	})

	t.Run("short with zero fill", func(t *testing.T) {
		t.Parallel()
		buf := bytes.Repeat([]byte{0xFF}, 8)
		n, outcome, err := readBlock(strings.NewReader("abc"), buf, true)
		require.NoError(t, err)
		assert.Equal(t, readShort, outcome)
		assert.Equal(t, int64(8), n)
		assert.Equal(t, []byte{'a', 'b', 'c', 0, 0, 0, 0, 0}, buf)
	})

	t.Run("one byte at a time", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, 8)
		n, outcome, err := readBlock(iotest.OneByteReader(strings.NewReader("abcde")), buf, false)
		require.NoError(t, err)
		assert.Equal(t, readShort, outcome)
		assert.Equal(t, int64(5), n)
	})

	t.Run("eof", func(t *testing.T) {
		t.Parallel()
		n, outcome, err := readBlock(strings.NewReader(""), make([]byte, 8), true)
		require.NoError(t, err)
		assert.Equal(t, readEOF, outcome)
		assert.Zero(t, n)
	})

	t.Run("data with eof", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, 8)
		n, outcome, err := readBlock(iotest.DataErrReader(strings.NewReader("xy")), buf, false)
		require.NoError(t, err)
		assert.Equal(t, readShort, outcome)
		assert.Equal(t, int64(2), n)
	})

	t.Run("io error", func(t *testing.T) {
		t.Parallel()
		_, outcome, err := readBlock(&failingReader{err: errInjectedRead}, make([]byte, 8), true)
		assert.Equal(t, readFailed, outcome)
		assert.ErrorIs(t, err, errInjectedRead)
	})

	t.Run("io error after partial data", func(t *testing.T) {
		t.Parallel()
		src := io.MultiReader(strings.NewReader("ab"), &failingReader{err: errInjectedRead})
		n, outcome, err := readBlock(src, make([]byte, 8), false)
		assert.Equal(t, readFailed, outcome)
		assert.ErrorIs(t, err, errInjectedRead)
		assert.Equal(t, int64(2), n)
	})
}

func TestSkipInput(t *testing.T) {
	t.Parallel()

	t.Run("seekable", func(t *testing.T) {
		t.Parallel()
		src := strings.NewReader("0123456789")
		require.NoError(t, skipInput(src, 4))
		rest, err := io.ReadAll(src)
		require.NoError(t, err)
		assert.Equal(t, "456789", string(rest))
	})

	t.Run("stream", func(t *testing.T) {
		t.Parallel()
		src := streamOnly{strings.NewReader("0123456789")}
		require.NoError(t, skipInput(src, 4))
		rest, err := io.ReadAll(src)
		require.NoError(t, err)
		assert.Equal(t, "456789", string(rest))
	})

	t.Run("stream shorter than skip", func(t *testing.T) {
		t.Parallel()
		src := streamOnly{strings.NewReader("01")}
		require.NoError(t, skipInput(src, 4))
	})

	t.Run("stream error", func(t *testing.T) {
		t.Parallel()
		err := skipInput(&failingReader{err: errInjectedRead}, 4)
		assert.ErrorIs(t, err, errInjectedRead)
	})
}

func TestSkipPastError(t *testing.T) {
	t.Parallel()

	src := strings.NewReader("0123456789")
	assert.Equal(t, int64(3), skipPastError(src, 3))
	assert.Equal(t, int64(-1), skipPastError(streamOnly{src}, 3))

	// A failing seek is not fatal: the stream just keeps going.
	pipe := pipeReader{strings.NewReader("abc")}
	assert.Equal(t, int64(-1), skipPastError(pipe, 3))
	rest, err := io.ReadAll(pipe)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(rest))
}
