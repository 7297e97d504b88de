package filecodec

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/vaultfile/vaultfile/internal/bodycodec"
	"github.com/vaultfile/vaultfile/internal/compositekey"
	"github.com/vaultfile/vaultfile/internal/innerstream"
	"github.com/vaultfile/vaultfile/internal/model"
	"github.com/vaultfile/vaultfile/internal/statuscb"
	"github.com/vaultfile/vaultfile/internal/vaulterr"
	"github.com/vaultfile/vaultfile/internal/vcrypto"
)

// historyMaxItems bounds history snapshots per entry at save time (spec
// §3: "trimmed by count and by age-in-days at save time"); the format
// carries no configurable count, so this mirrors the original format's own
// default limit.
const historyMaxItems = 10

// Save writes db's full outer-format encoding to w: a fresh header with
// freshly random salts and inner-stream seed (spec §4.3, "Write: ... freshly
// random per save"), the AES-256-CBC envelope, the block-hashed inner
// stream, and the structured body document.
func Save(w io.Writer, db *model.Database, sources []compositekey.Source, cb statuscb.Callback) error {
	db.TrimHistory(historyMaxItems)

	masterSeed, err := randomArray32()
	if err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "generating master seed", err)
	}
	transformSeed, err := randomArray32()
	if err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "generating transform seed", err)
	}
	streamStart, err := randomArray32()
	if err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "generating stream start bytes", err)
	}
	innerStreamKey, err := randomArray32()
	if err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "generating inner stream key", err)
	}
	iv, err := vcrypto.RandomBytes(16)
	if err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "generating encryption IV", err)
	}
	var ivArr [16]byte
	copy(ivArr[:], iv)

	key, err := compositekey.Derive(sources, transformSeed, masterSeed, db.KeyTransformRounds, cb)
	if err != nil {
		return err
	}
	defer vcrypto.Zeroize(key[:])

	masker := innerstream.New(model.InnerStreamARX20, innerStreamKey[:])
	defer masker.Zero()

	var bodyBuf bytes.Buffer
	if err := bodycodec.Encode(&bodyBuf, db, masker); err != nil {
		return err
	}

	payload, err := compress(db.Compression, bodyBuf.Bytes())
	if err != nil {
		return err
	}

	var framed bytes.Buffer
	if err := WriteBlockStream(&framed, payload); err != nil {
		return err
	}

	ciphertext, err := encryptEnvelope([32]byte(key), ivArr, streamStart, framed.Bytes())
	if err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "encrypting payload", err)
	}

	header := Header{
		FormatVersion:    FormatVersion,
		CipherUUID:       model.AESCipherUUID,
		Compression:      db.Compression,
		MasterSeed:       masterSeed,
		TransformSeed:    transformSeed,
		TransformRounds:  db.KeyTransformRounds,
		EncryptionIV:     ivArr,
		InnerStreamKey:   innerStreamKey,
		StreamStartBytes: streamStart,
		InnerStreamID:    model.InnerStreamARX20,
	}
	if err := WriteHeader(w, header); err != nil {
		return err
	}
	if _, err := w.Write(ciphertext); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "writing encrypted payload", err)
	}

	db.Modified = false
	db.DataCipher = header.CipherUUID
	return nil
}

func randomArray32() ([32]byte, error) {
	var out [32]byte
	b, err := vcrypto.RandomBytes(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func compress(c model.Compression, data []byte) ([]byte, error) {
	if c != model.CompressionGZip {
		return data, nil
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, vaulterr.Wrap(vaulterr.KindIOFailure, "compressing payload", err)
	}
	if err := gz.Close(); err != nil {
		return nil, vaulterr.Wrap(vaulterr.KindIOFailure, "compressing payload", err)
	}
	return buf.Bytes(), nil
}
