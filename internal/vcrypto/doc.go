// Package vcrypto collects the low-level cryptographic primitives used to
// build the composite key, the outer file envelope and the inner-stream
// masker: AES-256 in CBC and single-block (ECB) modes, SHA-256, a
// constant-time comparison, a CSPRNG wrapper and a zeroizing byte buffer.
//
// Nothing in this package understands the file format; it only wraps
// crypto/aes, crypto/sha256, crypto/rand and golang.org/x/crypto/salsa20/salsa
// behind the shapes the rest of the module needs.
package vcrypto
