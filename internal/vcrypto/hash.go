package vcrypto

import "crypto/sha256"

// Sum256 hashes the concatenation of all parts with SHA-256.
func Sum256(parts ...[]byte) [32]byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// Sum256Slice is Sum256 returning a slice instead of an array, for callers
// that immediately need []byte.
func Sum256Slice(parts ...[]byte) []byte {
	sum := Sum256(parts...)
	return sum[:]
}
