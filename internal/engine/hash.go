package engine

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// hexDigest returns the hex-encoded BLAKE3 digest accumulated in h.
func hexDigest(h *blake3.Hasher) string {
	return hex.EncodeToString(h.Sum(nil))
}
