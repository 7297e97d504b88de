package vcrypto

import (
	"crypto/aes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCBCRoundTrip(t *testing.T) {
	key := Sum256Slice([]byte("key material"))
	iv, err := NewIV()
	require.NoError(t, err)

	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	ct, err := EncryptCBC(key, iv, plaintext)
	require.NoError(t, err)
	require.Zero(t, len(ct)%BlockSize)

	pt, err := DecryptCBC(key, iv, ct)
	require.NoError(t, err)
	require.Equal(t, plaintext, pt)
}

func TestCBCBadPaddingRejected(t *testing.T) {
	key := Sum256Slice([]byte("key material"))
	iv, err := NewIV()
	require.NoError(t, err)

	ct, err := EncryptCBC(key, iv, []byte("hello"))
	require.NoError(t, err)
	ct[len(ct)-1] ^= 0xFF // corrupt the padding byte

	_, err = DecryptCBC(key, iv, ct)
	require.ErrorIs(t, err, ErrBadPadding)
}

func TestECBEncryptBlocksIsDeterministicPerBlock(t *testing.T) {
	key := Sum256Slice([]byte("transform seed"))
	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	state := make([]byte, 32)
	copy(state, []byte("0123456789abcdef0123456789abcde"))
	require.NoError(t, ECBEncryptBlocks(block, state))

	// Encrypting two identical 16-byte halves must produce identical
	// ciphertext halves, since ECB has no chaining between blocks.
	same := make([]byte, 32)
	copy(same[:16], []byte("AAAAAAAAAAAAAAAA"))
	copy(same[16:], []byte("AAAAAAAAAAAAAAAA"))
	require.NoError(t, ECBEncryptBlocks(block, same))
	require.Equal(t, same[:16], same[16:])
}
