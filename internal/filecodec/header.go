// Package filecodec implements the outer file format of spec §4.2-§4.4: the
// fixed-signature binary header, the AES-256-CBC envelope around the
// decrypted payload, and the block-hashed inner stream framing that lets a
// reader verify integrity independently of the cipher. Open and Save tie
// these layers together with package compositekey (key derivation), package
// innerstream (protected-string masking) and package bodycodec (the
// structured tree document) to implement the public open/save contract of
// spec §6.
package filecodec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/vaultfile/vaultfile/internal/model"
	"github.com/vaultfile/vaultfile/internal/vaulterr"
)

// Signature1/Signature2 are the fixed magic bytes every file begins with
// (spec §4.2).
var (
	signature1 = [4]byte{0x9A, 0xA2, 0xD9, 0x03}
	signature2 = [4]byte{0xB5, 0x4B, 0xFB, 0x67}
)

// FormatVersion is the bit-compatible published format version this codec
// reads and writes: major 3, minor 1 (spec §6).
const FormatVersion uint32 = 0x00030001

// TLV field type tags (spec §4.2).
const (
	fieldEndOfHeader          = 0x00
	fieldCipherUUID           = 0x02
	fieldCompressionFlags     = 0x03
	fieldMasterSeed           = 0x04
	fieldTransformSeed        = 0x05
	fieldTransformRounds      = 0x06
	fieldEncryptionIV         = 0x07
	fieldInnerRandomStreamKey = 0x08
	fieldStreamStartBytes     = 0x09
	fieldInnerRandomStreamID  = 0x0A
)

// Header is the parsed outer file header (spec §4.2).
type Header struct {
	FormatVersion uint32

	CipherUUID         model.UUID
	Compression        model.Compression
	MasterSeed         [32]byte
	TransformSeed      [32]byte
	TransformRounds    uint64
	EncryptionIV       [16]byte
	InnerStreamKey     [32]byte
	StreamStartBytes   [32]byte
	InnerStreamID      model.InnerStreamID
}

// ReadHeader parses the signature, version and TLV fields from the start of
// r. Required fields missing from the TLV stream fail with
// KindCorruptHeader; an unrecognized CipherUUID fails with
// KindUnknownCipher.
func ReadHeader(r io.Reader) (Header, error) {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return Header{}, vaulterr.Wrap(vaulterr.KindCorruptHeader, "reading signature", err)
	}
	if !bytes.Equal(sig[0:4], signature1[:]) || !bytes.Equal(sig[4:8], signature2[:]) {
		return Header{}, vaulterr.New(vaulterr.KindCorruptHeader, "bad file signature")
	}

	var versionBytes [4]byte
	if _, err := io.ReadFull(r, versionBytes[:]); err != nil {
		return Header{}, vaulterr.Wrap(vaulterr.KindCorruptHeader, "reading format version", err)
	}
	version := binary.LittleEndian.Uint32(versionBytes[:])
	if version>>16 != FormatVersion>>16 {
		return Header{}, vaulterr.New(vaulterr.KindUnsupportedVersion, "unsupported major format version")
	}

	h := Header{
		FormatVersion: version,
		Compression:   model.CompressionNone,
		InnerStreamID: model.InnerStreamARX20,
	}
	seen := map[byte]bool{}

	for {
		var typeTag [1]byte
		if _, err := io.ReadFull(r, typeTag[:]); err != nil {
			return Header{}, vaulterr.Wrap(vaulterr.KindCorruptHeader, "reading field type", err)
		}
		if typeTag[0] == fieldEndOfHeader {
			// The terminator still carries a (normally zero) length-value
			// pair; consume it so the envelope reader starts exactly at
			// the ciphertext.
			var lenBytes [2]byte
			if _, err := io.ReadFull(r, lenBytes[:]); err != nil {
				return Header{}, vaulterr.Wrap(vaulterr.KindCorruptHeader, "reading terminator length", err)
			}
			n := binary.LittleEndian.Uint16(lenBytes[:])
			if n > 0 {
				if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
					return Header{}, vaulterr.Wrap(vaulterr.KindCorruptHeader, "skipping terminator value", err)
				}
			}
			break
		}

		var lenBytes [2]byte
		if _, err := io.ReadFull(r, lenBytes[:]); err != nil {
			return Header{}, vaulterr.Wrap(vaulterr.KindCorruptHeader, "reading field length", err)
		}
		n := binary.LittleEndian.Uint16(lenBytes[:])
		value := make([]byte, n)
		if _, err := io.ReadFull(r, value); err != nil {
			return Header{}, vaulterr.Wrap(vaulterr.KindCorruptHeader, "reading field value", err)
		}

		if err := applyField(&h, typeTag[0], value); err != nil {
			return Header{}, err
		}
		seen[typeTag[0]] = true
	}

	for _, required := range []byte{
		fieldCipherUUID, fieldMasterSeed, fieldTransformSeed, fieldTransformRounds,
		fieldEncryptionIV, fieldInnerRandomStreamKey, fieldStreamStartBytes,
	} {
		if !seen[required] {
			return Header{}, vaulterr.New(vaulterr.KindCorruptHeader, "missing required header field")
		}
	}
	if !h.CipherUUID.Equal(model.AESCipherUUID) {
		return Header{}, vaulterr.New(vaulterr.KindUnknownCipher, "unrecognized data cipher")
	}
	return h, nil
}

func applyField(h *Header, tag byte, value []byte) error {
	switch tag {
	case fieldCipherUUID:
		if len(value) != 16 {
			return vaulterr.New(vaulterr.KindCorruptHeader, "CipherUUID must be 16 bytes")
		}
		copy(h.CipherUUID[:], value)
	case fieldCompressionFlags:
		if len(value) != 4 {
			return vaulterr.New(vaulterr.KindCorruptHeader, "CompressionFlags must be 4 bytes")
		}
		h.Compression = model.Compression(binary.LittleEndian.Uint32(value))
	case fieldMasterSeed:
		if len(value) != 32 {
			return vaulterr.New(vaulterr.KindCorruptHeader, "MasterSeed must be 32 bytes")
		}
		copy(h.MasterSeed[:], value)
	case fieldTransformSeed:
		if len(value) != 32 {
			return vaulterr.New(vaulterr.KindCorruptHeader, "TransformSeed must be 32 bytes")
		}
		copy(h.TransformSeed[:], value)
	case fieldTransformRounds:
		if len(value) != 8 {
			return vaulterr.New(vaulterr.KindCorruptHeader, "TransformRounds must be 8 bytes")
		}
		h.TransformRounds = binary.LittleEndian.Uint64(value)
	case fieldEncryptionIV:
		if len(value) != 16 {
			return vaulterr.New(vaulterr.KindCorruptHeader, "EncryptionIV must be 16 bytes")
		}
		copy(h.EncryptionIV[:], value)
	case fieldInnerRandomStreamKey:
		if len(value) != 32 {
			return vaulterr.New(vaulterr.KindCorruptHeader, "InnerRandomStreamKey must be 32 bytes")
		}
		copy(h.InnerStreamKey[:], value)
	case fieldStreamStartBytes:
		if len(value) != 32 {
			return vaulterr.New(vaulterr.KindCorruptHeader, "StreamStartBytes must be 32 bytes")
		}
		copy(h.StreamStartBytes[:], value)
	case fieldInnerRandomStreamID:
		if len(value) != 4 {
			return vaulterr.New(vaulterr.KindCorruptHeader, "InnerRandomStreamID must be 4 bytes")
		}
		h.InnerStreamID = model.InnerStreamID(binary.LittleEndian.Uint32(value))
		if h.InnerStreamID != model.InnerStreamNone && h.InnerStreamID != model.InnerStreamARX20 {
			return vaulterr.New(vaulterr.KindCorruptHeader, "unsupported InnerRandomStreamID")
		}
	}
	// Unrecognized field types are skipped rather than rejected, matching
	// the TLV format's own forward-compatibility design.
	return nil
}

// WriteHeader writes the signature, format version and TLV fields for h.
func WriteHeader(w io.Writer, h Header) error {
	if _, err := w.Write(signature1[:]); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing signature", err)
	}
	if _, err := w.Write(signature2[:]); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing signature", err)
	}
	var versionBytes [4]byte
	binary.LittleEndian.PutUint32(versionBytes[:], FormatVersion)
	if _, err := w.Write(versionBytes[:]); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing format version", err)
	}

	var compressionBytes [4]byte
	binary.LittleEndian.PutUint32(compressionBytes[:], uint32(h.Compression))
	var roundsBytes [8]byte
	binary.LittleEndian.PutUint64(roundsBytes[:], h.TransformRounds)
	var streamIDBytes [4]byte
	binary.LittleEndian.PutUint32(streamIDBytes[:], uint32(h.InnerStreamID))

	fields := []struct {
		tag   byte
		value []byte
	}{
		{fieldCipherUUID, h.CipherUUID[:]},
		{fieldCompressionFlags, compressionBytes[:]},
		{fieldMasterSeed, h.MasterSeed[:]},
		{fieldTransformSeed, h.TransformSeed[:]},
		{fieldTransformRounds, roundsBytes[:]},
		{fieldEncryptionIV, h.EncryptionIV[:]},
		{fieldInnerRandomStreamKey, h.InnerStreamKey[:]},
		{fieldStreamStartBytes, h.StreamStartBytes[:]},
		{fieldInnerRandomStreamID, streamIDBytes[:]},
	}
	for _, f := range fields {
		if err := writeTLV(w, f.tag, f.value); err != nil {
			return err
		}
	}
	return writeTLV(w, fieldEndOfHeader, nil)
}

func writeTLV(w io.Writer, tag byte, value []byte) error {
	if _, err := w.Write([]byte{tag}); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing header field", err)
	}
	var lenBytes [2]byte
	binary.LittleEndian.PutUint16(lenBytes[:], uint16(len(value)))
	if _, err := w.Write(lenBytes[:]); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing header field", err)
	}
	if len(value) == 0 {
		return nil
	}
	if _, err := w.Write(value); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing header field", err)
	}
	return nil
}
