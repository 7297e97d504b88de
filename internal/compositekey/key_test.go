package compositekey

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vaultfile/vaultfile/internal/vaulterr"
	"github.com/vaultfile/vaultfile/internal/vcrypto"
)

func TestAssembleRejectsEmptySources(t *testing.T) {
	_, err := Assemble()
	require.True(t, vaulterr.Of(err, vaulterr.KindInvalidKey))
}

func TestStrengthenRejectsZeroRounds(t *testing.T) {
	var seed [32]byte
	_, err := Strengthen([32]byte{}, seed, 0, nil)
	require.True(t, vaulterr.Of(err, vaulterr.KindInvalidKey))
}

// TestKeyFileRawPath matches spec.md scenario 6: a 32-byte key-file of
// 00 01 ... 1F combined with the empty passphrase must assemble to
// SHA-256(SHA-256("") || {00..1F}).
func TestKeyFileRawPath(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}

	got, err := Assemble(Passphrase(""), KeyFile(raw))
	require.NoError(t, err)

	want := vcrypto.Sum256(vcrypto.Sum256Slice([]byte("")), raw)
	require.Equal(t, want, got)
}

func TestKeyFileHexPath(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}
	hexEncoded := []byte("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")[:64]

	h1, err := KeyFile(hexEncoded).hash()
	require.NoError(t, err)
	var want [32]byte
	copy(want[:], raw)
	require.Equal(t, want, h1)
}

func TestKeyFileArbitraryContentIsHashed(t *testing.T) {
	content := KeyFile("not 32 bytes, not hex, not xml")
	h, err := content.hash()
	require.NoError(t, err)
	require.Equal(t, vcrypto.Sum256([]byte(content)), h)
}

func TestDeriveEndToEndIsDeterministic(t *testing.T) {
	var transformSeed, masterSeed [32]byte
	copy(transformSeed[:], []byte("0123456789abcdef0123456789abcde"))
	copy(masterSeed[:], []byte("fedcba9876543210fedcba987654321"))

	k1, err := Derive([]Source{Passphrase("test")}, transformSeed, masterSeed, 100, nil)
	require.NoError(t, err)
	k2, err := Derive([]Source{Passphrase("test")}, transformSeed, masterSeed, 100, nil)
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	k3, err := Derive([]Source{Passphrase("Test")}, transformSeed, masterSeed, 100, nil)
	require.NoError(t, err)
	require.NotEqual(t, k1, k3)
}
