// Package protectedstring implements the ProtectedString value of spec §3:
// a (value, protect) pair whose plaintext, when protect is true, is held
// XOR-masked in memory by a per-process keystream so the unmasked bytes are
// never resident except transiently during Read.
package protectedstring

import (
	"sync"

	"github.com/vaultfile/vaultfile/internal/vcrypto"
)

// processKeystream is the per-process mask applied to every protected
// value's in-memory storage. It is unrelated to the per-file inner-stream
// key (spec §4.5); it exists purely to reduce plaintext residence while a
// Database is open in this process, and is reseeded once at process start.
var processKeystream = newProcessMask()

type processMask struct {
	mu   sync.Mutex
	seed [32]byte
}

func newProcessMask() *processMask {
	seed, err := vcrypto.RandomBytes(32)
	if err != nil {
		// crypto/rand failing means the platform CSPRNG is broken; there
		// is no safe fallback for a secret-storage engine.
		panic("protectedstring: failed to seed process mask: " + err.Error())
	}
	var pm processMask
	copy(pm.seed[:], seed)
	return &pm
}

// stream returns a fresh keystream cursor seeded from the process mask,
// offset deterministically by a per-value salt so that two ProtectedString
// values don't share identical keystream bytes at the same offset.
func (pm *processMask) stream(salt [16]byte) *vcrypto.ARXKeystream {
	pm.mu.Lock()
	seed := append([]byte(nil), pm.seed[:]...)
	pm.mu.Unlock()
	return vcrypto.NewARXKeystream(append(seed, salt[:]...))
}

// ProtectedString holds a string value and a flag indicating whether it
// should be masked in memory. While protect is true, store holds
// ciphertext; Read transiently decrypts it and callers must not retain the
// returned slice past the call.
type ProtectedString struct {
	protect bool
	salt    [16]byte
	store   []byte // masked if protect, plaintext otherwise
}

// NewProtected returns a ProtectedString masking value immediately.
func NewProtected(value []byte) ProtectedString {
	return newString(value, true)
}

// NewUnprotected returns a ProtectedString holding value in the clear.
func NewUnprotected(value []byte) ProtectedString {
	return newString(value, false)
}

// New returns a ProtectedString with the given protect flag.
func New(value []byte, protect bool) ProtectedString {
	return newString(value, protect)
}

func newString(value []byte, protect bool) ProtectedString {
	ps := ProtectedString{protect: protect}
	if !protect {
		ps.store = append([]byte(nil), value...)
		return ps
	}
	salt, err := vcrypto.RandomBytes(16)
	if err != nil {
		panic("protectedstring: failed to generate salt: " + err.Error())
	}
	copy(ps.salt[:], salt)
	ps.store = processKeystream.stream(ps.salt).Mask(value)
	return ps
}

// Protected reports whether the value is masked in memory.
func (p ProtectedString) Protected() bool { return p.protect }

// Read returns the plaintext value. The returned slice is a fresh copy
// decrypted on demand; callers must not retain it beyond the immediate use
// (spec §3: "callers must not retain it").
func (p ProtectedString) Read() []byte {
	if !p.protect {
		return append([]byte(nil), p.store...)
	}
	return processKeystream.stream(p.salt).Mask(p.store)
}

// String returns the plaintext as a Go string, for callers that don't need
// to control the underlying buffer's lifetime themselves.
func (p ProtectedString) String() string {
	return string(p.Read())
}

// SetProtect returns a copy of the value with the given protect flag,
// re-masked or unmasked as needed; the receiver itself is not changed.
func (p ProtectedString) SetProtect(protect bool) ProtectedString {
	if protect == p.protect {
		return p
	}
	return New(p.Read(), protect)
}

// Equal compares plaintext and the protect flag, per spec §3.
func (p ProtectedString) Equal(other ProtectedString) bool {
	if p.protect != other.protect {
		return false
	}
	a, b := p.Read(), other.Read()
	defer vcrypto.Zeroize(a)
	defer vcrypto.Zeroize(b)
	return vcrypto.Equal(a, b)
}
