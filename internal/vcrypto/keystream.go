package vcrypto

import (
	"encoding/binary"

	"golang.org/x/crypto/salsa20/salsa"
)

// ARXKeystream is the 20-round ARX keystream generator specified in spec
// §4.5 (InnerRandomStreamID=2): state is the 4x4 32-bit matrix operated on
// by the Salsa20 core permutation (alternating column and row
// quarter-rounds), seeded from SHA-256(seed) and advanced by a 64-bit block
// counter. It produces keystream 64 bytes at a time and lets callers pull
// it one byte at a time in document order.
//
// A single ARXKeystream must be consumed by exactly one reader or writer
// pass over the body tree (spec §9, "single-consumer contract") — it is not
// safe to fork or rewind.
type ARXKeystream struct {
	key     [32]byte
	counter uint64
	block   [64]byte
	pos     int // next unread byte in block; 64 means block is exhausted
}

// NewARXKeystream seeds a keystream generator from an arbitrary-length seed,
// hashing it to the 32-byte key the Salsa20 core requires.
func NewARXKeystream(seed []byte) *ARXKeystream {
	s := &ARXKeystream{pos: 64}
	s.key = Sum256(seed)
	return s
}

// Zero wipes the generator's key and current block so the stream state
// doesn't outlive the parse/emit pass that owns it (spec §5).
func (s *ARXKeystream) Zero() {
	Zeroize(s.key[:])
	Zeroize(s.block[:])
	s.counter = 0
	s.pos = 64
}

func (s *ARXKeystream) refill() {
	var in [16]byte
	binary.LittleEndian.PutUint64(in[0:8], s.counter)
	// bytes 8:16 are the nonce half of the input block; zero for a
	// single deterministic stream per seed, matching the spec's
	// "deterministic keystream" requirement.
	salsa.Core(&s.block, &in, &s.key, &salsa.Sigma)
	s.counter++
	s.pos = 0
}

// XORKeyStream advances the keystream by len(dst) bytes and writes
// src[i] XOR keystream[i] into dst. dst and src may overlap exactly (in
// place masking), matching crypto/cipher.Stream's contract.
func (s *ARXKeystream) XORKeyStream(dst, src []byte) {
	for i := range src {
		if s.pos == 64 {
			s.refill()
		}
		dst[i] = src[i] ^ s.block[s.pos]
		s.pos++
	}
}

// Mask returns a new slice containing plain XOR keystream, advancing the
// generator by len(plain) bytes. Equivalent to allocating dst and calling
// XORKeyStream, provided as a convenience for the body codec's field-value
// masking call sites (spec §4.5: "cipher = plain XOR keystream[i]").
func (s *ARXKeystream) Mask(plain []byte) []byte {
	out := make([]byte, len(plain))
	s.XORKeyStream(out, plain)
	return out
}
