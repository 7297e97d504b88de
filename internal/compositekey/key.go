package compositekey

import (
	"crypto/aes"
	"fmt"

	"github.com/vaultfile/vaultfile/internal/statuscb"
	"github.com/vaultfile/vaultfile/internal/vaulterr"
	"github.com/vaultfile/vaultfile/internal/vcrypto"
)

// Key is the final 32-byte AES-256 key used for the outer envelope.
type Key [32]byte

// Assemble concatenates each source's 32-byte hash in order and hashes the
// result with SHA-256, producing the "raw" composite key of spec §4.1. An
// empty source list is rejected with KindInvalidKey.
func Assemble(sources ...Source) ([32]byte, error) {
	if len(sources) == 0 {
		return [32]byte{}, vaulterr.New(vaulterr.KindInvalidKey, "at least one key source is required")
	}
	concat := make([]byte, 0, 32*len(sources))
	for i, s := range sources {
		h, err := s.hash()
		if err != nil {
			return [32]byte{}, vaulterr.Wrap(vaulterr.KindInvalidKey, fmt.Sprintf("hashing key source %d", i), err)
		}
		concat = append(concat, h[:]...)
	}
	raw := vcrypto.Sum256(concat)
	vcrypto.Zeroize(concat)
	return raw, nil
}

// Strengthen runs the key-transformation rounds: each round AES-256-ECB
// self-encrypts the 32-byte state in place (two 16-byte blocks) under
// transformSeed, for rounds iterations, then SHA-256s the result (spec
// §4.1). rounds == 0 is rejected with KindInvalidKey. cb, if non-nil, is
// offered a report every statuscb.SampleRounds rounds through a
// statuscb.Throttled of 20 calls per second, plus a final 100% report; a
// report that reaches cb can abort the loop by returning statuscb.Cancel.
// Reports the limiter drops are not checked for Cancel.
func Strengthen(raw [32]byte, transformSeed [32]byte, rounds uint64, cb statuscb.Callback) ([32]byte, error) {
	if rounds == 0 {
		return [32]byte{}, vaulterr.New(vaulterr.KindInvalidKey, "transform rounds must be >= 1")
	}
	block, err := aes.NewCipher(transformSeed[:])
	if err != nil {
		return [32]byte{}, vaulterr.Wrap(vaulterr.KindInvalidKey, "constructing transform cipher", err)
	}

	throttled := statuscb.NewThrottled(cb, 20)
	state := make([]byte, 32)
	copy(state, raw[:])
	defer vcrypto.Zeroize(state)

	for round := uint64(0); round < rounds; round++ {
		if err := vcrypto.ECBEncryptBlocks(block, state); err != nil {
			return [32]byte{}, vaulterr.Wrap(vaulterr.KindInvalidKey, "strengthening round", err)
		}
		if round%statuscb.SampleRounds == 0 {
			pct := int(round * 100 / rounds)
			if throttled.Report(pct, "deriving key", false) == statuscb.Cancel {
				return [32]byte{}, vaulterr.New(vaulterr.KindCancelled, "key derivation cancelled")
			}
		}
	}
	throttled.Report(100, "deriving key", true)

	out := vcrypto.Sum256(state)
	return out, nil
}

// FinalKey mixes the file's random master seed with the strengthened key to
// produce the AES-256 key for the outer envelope (spec §4.1, §4.3).
func FinalKey(masterSeed [32]byte, strengthened [32]byte) [32]byte {
	return vcrypto.Sum256(masterSeed[:], strengthened[:])
}

// Derive is the convenience entry point combining Assemble, Strengthen and
// FinalKey, as used by the outer file codec on both open and save.
func Derive(sources []Source, transformSeed, masterSeed [32]byte, rounds uint64, cb statuscb.Callback) (Key, error) {
	raw, err := Assemble(sources...)
	if err != nil {
		return Key{}, err
	}
	defer vcrypto.Zeroize(raw[:])

	strengthened, err := Strengthen(raw, transformSeed, rounds, cb)
	if err != nil {
		return Key{}, err
	}
	defer vcrypto.Zeroize(strengthened[:])

	return Key(FinalKey(masterSeed, strengthened)), nil
}
