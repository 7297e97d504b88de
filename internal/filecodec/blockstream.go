package filecodec

import (
	"encoding/binary"
	"io"

	"github.com/vaultfile/vaultfile/internal/vaulterr"
	"github.com/vaultfile/vaultfile/internal/vcrypto"
)

// maxBlockSize is the largest payload chunk a writer emits per block (spec
// §4.4: "writers emit blocks of up to 1 MiB each").
const maxBlockSize = 1 << 20

// WriteBlockStream frames payload into the block-hashed inner stream (spec
// §4.4): sequentially indexed, SHA-256-hashed chunks of up to 1 MiB,
// terminated by a zero-size block.
func WriteBlockStream(w io.Writer, payload []byte) error {
	var index uint32
	for len(payload) > 0 {
		n := len(payload)
		if n > maxBlockSize {
			n = maxBlockSize
		}
		if err := writeBlock(w, index, payload[:n]); err != nil {
			return err
		}
		payload = payload[n:]
		index++
	}
	return writeBlock(w, index, nil)
}

func writeBlock(w io.Writer, index uint32, data []byte) error {
	var indexBytes [4]byte
	binary.LittleEndian.PutUint32(indexBytes[:], index)
	if _, err := w.Write(indexBytes[:]); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing block index", err)
	}

	var hash [32]byte
	if len(data) > 0 {
		hash = vcrypto.Sum256(data)
	}
	if _, err := w.Write(hash[:]); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing block hash", err)
	}

	var sizeBytes [4]byte
	binary.LittleEndian.PutUint32(sizeBytes[:], uint32(len(data)))
	if _, err := w.Write(sizeBytes[:]); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing block size", err)
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := w.Write(data); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing block data", err)
	}
	return nil
}

// ReadBlockStream reads and verifies the block-hashed inner stream from r
// until the terminating zero-size block, returning the reassembled
// payload. A hash mismatch fails with KindCorruptPayload.
func ReadBlockStream(r io.Reader) ([]byte, error) {
	var out []byte
	var wantIndex uint32
	for {
		var indexBytes [4]byte
		if _, err := io.ReadFull(r, indexBytes[:]); err != nil {
			return nil, vaulterr.Wrap(vaulterr.KindCorruptPayload, "reading block index", err)
		}
		index := binary.LittleEndian.Uint32(indexBytes[:])
		if index != wantIndex {
			return nil, vaulterr.New(vaulterr.KindCorruptPayload, "out-of-sequence block index")
		}
		wantIndex++

		var hash [32]byte
		if _, err := io.ReadFull(r, hash[:]); err != nil {
			return nil, vaulterr.Wrap(vaulterr.KindCorruptPayload, "reading block hash", err)
		}

		var sizeBytes [4]byte
		if _, err := io.ReadFull(r, sizeBytes[:]); err != nil {
			return nil, vaulterr.Wrap(vaulterr.KindCorruptPayload, "reading block size", err)
		}
		size := binary.LittleEndian.Uint32(sizeBytes[:])
		if size == 0 {
			var zero [32]byte
			if !vcrypto.Equal(hash[:], zero[:]) {
				return nil, vaulterr.New(vaulterr.KindCorruptPayload, "terminator block hash must be zero")
			}
			return out, nil
		}

		data := make([]byte, size)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, vaulterr.Wrap(vaulterr.KindCorruptPayload, "reading block data", err)
		}
		got := vcrypto.Sum256(data)
		if !vcrypto.Equal(got[:], hash[:]) {
			return nil, vaulterr.New(vaulterr.KindCorruptPayload, "block hash mismatch")
		}
		out = append(out, data...)
	}
}
