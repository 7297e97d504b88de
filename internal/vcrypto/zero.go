package vcrypto

// Zeroize overwrites b with zeros in place. Call via defer immediately after
// allocating any buffer that will hold key material or decrypted plaintext,
// so the secret doesn't outlive its scope even on an early return.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// SecretBuffer is a byte buffer that callers acquire, use, and release
// through Zero — the "scoped acquisition with guaranteed release" pattern
// required by spec §5 for decrypted plaintext, intermediate keys and
// protected-string plaintexts.
type SecretBuffer struct {
	b []byte
}

// NewSecretBuffer wraps an existing slice for scoped zeroization. Ownership
// of b transfers to the SecretBuffer.
func NewSecretBuffer(b []byte) *SecretBuffer {
	return &SecretBuffer{b: b}
}

// Bytes returns the underlying slice. The returned slice must not be
// retained past the SecretBuffer's scope.
func (s *SecretBuffer) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.b
}

// Zero wipes the underlying slice. Safe to call multiple times and on a nil
// receiver.
func (s *SecretBuffer) Zero() {
	if s == nil {
		return
	}
	Zeroize(s.b)
}
