package vcrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestARXKeystreamRoundTrip(t *testing.T) {
	seed := []byte("inner random stream key")
	writer := NewARXKeystream(seed)
	reader := NewARXKeystream(seed)

	plain := []byte("Title\x00UserName\x00Password\x00hunter2")
	masked := writer.Mask(plain)
	require.NotEqual(t, plain, masked)

	unmasked := reader.Mask(masked)
	require.Equal(t, plain, unmasked)
}

func TestARXKeystreamDocumentOrderMatters(t *testing.T) {
	seed := []byte("seed")
	writer := NewARXKeystream(seed)
	aPlain := []byte("first field!")
	bPlain := []byte("second field")
	a := writer.Mask(aPlain)
	b := writer.Mask(bPlain)

	// Reading fields out of the order they were masked in must not
	// recover the plaintext, demonstrating why spec §4.5 requires
	// matching document order between writer and reader.
	reader := NewARXKeystream(seed)
	wrongB := reader.Mask(b)
	require.NotEqual(t, bPlain, wrongB)

	reader2 := NewARXKeystream(seed)
	gotA := reader2.Mask(a)
	gotB := reader2.Mask(b)
	require.Equal(t, string(aPlain), string(gotA))
	require.Equal(t, string(bPlain), string(gotB))
}

func TestARXKeystreamCrossesBlockBoundary(t *testing.T) {
	seed := []byte("boundary seed")
	writer := NewARXKeystream(seed)
	plain := make([]byte, 200) // spans more than 3 64-byte blocks
	for i := range plain {
		plain[i] = byte(i)
	}
	masked := writer.Mask(plain)

	reader := NewARXKeystream(seed)
	got := reader.Mask(masked)
	require.Equal(t, plain, got)
}
