package vcrypto

import "crypto/subtle"

// Equal reports whether a and b are equal using a constant-time comparison,
// so that key-verification failures don't leak timing information about
// which byte differed.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
