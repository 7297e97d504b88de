package filecodec

import (
	"github.com/vaultfile/vaultfile/internal/vaulterr"
	"github.com/vaultfile/vaultfile/internal/vcrypto"
)

// decryptEnvelope decrypts ciphertext (everything after the header) with
// AES-256-CBC under key/iv, checks the leading StreamStartBytes marker and
// returns the remainder: the block-hashed inner stream (spec §4.3).
//
// A bad-padding failure and a StreamStartBytes mismatch both surface as
// KindInvalidCompositeKey, by design (spec §7): distinguishing them would
// tell an attacker which half of the key-verification check failed.
func decryptEnvelope(key [32]byte, iv [16]byte, ciphertext []byte, streamStart [32]byte) ([]byte, error) {
	plain, err := vcrypto.DecryptCBC(key[:], iv[:], ciphertext)
	if err != nil {
		return nil, vaulterr.Wrap(vaulterr.KindInvalidCompositeKey, "decrypting payload", err)
	}
	if len(plain) < 32 || !vcrypto.Equal(plain[:32], streamStart[:]) {
		vcrypto.Zeroize(plain)
		return nil, vaulterr.New(vaulterr.KindInvalidCompositeKey, "stream start marker mismatch")
	}
	return plain[32:], nil
}

// encryptEnvelope prepends streamStart to payload and AES-256-CBC encrypts
// the result under key/iv.
func encryptEnvelope(key [32]byte, iv [16]byte, streamStart [32]byte, payload []byte) ([]byte, error) {
	plain := make([]byte, 0, 32+len(payload))
	plain = append(plain, streamStart[:]...)
	plain = append(plain, payload...)
	defer vcrypto.Zeroize(plain)
	return vcrypto.EncryptCBC(key[:], iv[:], plain)
}
