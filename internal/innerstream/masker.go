// Package innerstream implements the inner-stream masker of spec §4.5: a
// scoped, single-consumer keystream that the body codec pulls from, in
// strict document order, to mask and unmask individual protected string
// values as they are written into or read out of the serialized body.
package innerstream

import (
	"encoding/base64"

	"github.com/vaultfile/vaultfile/internal/model"
	"github.com/vaultfile/vaultfile/internal/vcrypto"
)

// Masker wraps a single ARX-20 keystream (or a no-op passthrough when the
// file header selects InnerStreamNone) and exposes the operations the body
// codec needs: mask-for-write and unmask-for-read, base64 wrapped because
// that's how the body document stores protected values (spec §4.6).
//
// A Masker must be used by exactly one parse or emit pass (spec §9:
// "single-consumer contract"); it is not safe for concurrent use.
type Masker struct {
	streamID model.InnerStreamID
	stream   *vcrypto.ARXKeystream
}

// New builds a Masker for the given InnerRandomStreamID and seed (spec
// §4.2's InnerRandomStreamKey header field). Only InnerStreamNone and
// InnerStreamARX20 are supported; any other ID is the caller's (the file
// header parser's) responsibility to reject before constructing a Masker.
func New(streamID model.InnerStreamID, seed []byte) *Masker {
	m := &Masker{streamID: streamID}
	if streamID == model.InnerStreamARX20 {
		m.stream = vcrypto.NewARXKeystream(seed)
	}
	return m
}

// Zero releases the underlying keystream state (spec §5: "scoped to a
// single parse or emit pass and zeroized afterward").
func (m *Masker) Zero() {
	if m.stream != nil {
		m.stream.Zero()
	}
}

// MaskForWrite returns the base64 text to store for a protected string
// value, advancing the keystream by len(plain) bytes in document order.
// When the masker is InnerStreamNone, the value is stored in clear base64
// (spec §4.2: "0 none (store in clear)").
func (m *Masker) MaskForWrite(plain []byte) string {
	if m.streamID == model.InnerStreamNone || m.stream == nil {
		return base64.StdEncoding.EncodeToString(plain)
	}
	return base64.StdEncoding.EncodeToString(m.stream.Mask(plain))
}

// UnmaskForRead decodes base64 text and, if the masker is active, XORs it
// against the next slice of keystream bytes in document order, recovering
// the plaintext.
func (m *Masker) UnmaskForRead(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if m.streamID == model.InnerStreamNone || m.stream == nil {
		return raw, nil
	}
	return m.stream.Mask(raw), nil
}
