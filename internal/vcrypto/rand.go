package vcrypto

import "crypto/rand"

// RandomBytes returns n cryptographically random bytes from the OS CSPRNG.
// Used for master seeds, transform seeds, IVs and inner-stream keys — never
// for UI-visible shuffling, which callers should source from math/rand
// instead (spec §5).
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
