// Package cas computes BLAKE3 content digests of conversion output.
package cas

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

// Hasher forwards writes to an underlying writer while accumulating a
// BLAKE3 digest of every byte written.
type Hasher struct {
	w    io.Writer
	h    *blake3.Hasher
	size int64
}

// NewHasher returns a Hasher writing through to w. A nil w only hashes.
func NewHasher(w io.Writer) *Hasher {
	if w == nil {
		w = io.Discard
	}
	return &Hasher{w: w, h: blake3.New()}
}

func (h *Hasher) Write(p []byte) (int, error) {
	n, err := h.w.Write(p)
	h.h.Write(p[:n])
	h.size += int64(n)
	return n, err
}

// Sum returns the hex digest of the bytes written so far.
func (h *Hasher) Sum() string {
	return hex.EncodeToString(h.h.Sum(nil))
}

// Size returns the number of bytes written so far.
func (h *Hasher) Size() int64 { return h.size }

// Blake3Hash computes the BLAKE3 hash of the given data.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}
