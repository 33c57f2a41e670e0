package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestHexDigest(t *testing.T) {
	assert.Equal(t,
		"af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		hexDigest(blake3.New()),
	)

	h := blake3.New()
	_, err := h.Write([]byte("hello world"))
	require.NoError(t, err)
	assert.Len(t, hexDigest(h), 64)
	assert.NotEqual(t, hexDigest(blake3.New()), hexDigest(h))
}

func TestHexDigestIsIncremental(t *testing.T) {
	blocks := [][]byte{
		bytes.Repeat([]byte{0xAA}, 10),
		bytes.Repeat([]byte{0xBB}, 7),
		{0x01},
	}

	h := blake3.New()
	for _, b := range blocks {
		_, err := h.Write(b)
		require.NoError(t, err)
	}

	want, err := hashReader(bytes.NewReader(bytes.Join(blocks, nil)))
	require.NoError(t, err)
	assert.Equal(t, want, hexDigest(h))
}
