// Package model implements the in-memory entity tree described in spec §3:
// groups, entries, history, deleted-object tombstones, UUIDs, timestamps,
// the protected-string bag and the binary-attachment bag.
package model

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/vaultfile/vaultfile/internal/vcrypto"
)

// UUID is a 16-byte opaque identifier. The all-zero value is reserved for
// "unset" (spec §3).
type UUID [16]byte

// NewUUID returns a fresh random, non-zero UUID.
func NewUUID() UUID {
	b, err := vcrypto.RandomBytes(16)
	if err != nil {
		panic("model: failed to generate UUID: " + err.Error())
	}
	var u UUID
	copy(u[:], b)
	if u.IsZero() {
		// Astronomically unlikely; retry rather than ever hand back the
		// reserved "unset" value.
		return NewUUID()
	}
	return u
}

// IsZero reports whether u is the reserved "unset" value.
func (u UUID) IsZero() bool {
	return u == UUID{}
}

// Equal reports byte-wise equality, per spec §3.
func (u UUID) Equal(other UUID) bool {
	return u == other
}

// Base64 returns the standard-base64 encoding used by the body codec for
// UUID element values (spec §4.6).
func (u UUID) Base64() string {
	return base64.StdEncoding.EncodeToString(u[:])
}

// UUIDFromBase64 decodes a UUID previously encoded with Base64.
func UUIDFromBase64(s string) (UUID, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return UUID{}, err
	}
	return uuidFromBytes(b)
}

// Hex returns a hex-encoded representation, handy for logs and CLI output.
func (u UUID) Hex() string {
	return hex.EncodeToString(u[:])
}

func uuidFromBytes(b []byte) (UUID, error) {
	var u UUID
	if len(b) != 16 {
		return u, fmt.Errorf("model: UUID must be 16 bytes, got %d", len(b))
	}
	copy(u[:], b)
	return u, nil
}
