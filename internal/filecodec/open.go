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

// Open reads the full outer-format file from r and returns the decoded
// database, implementing spec §2's "data flow on open": header parse,
// key derivation, authenticated decryption, de-framing, optional
// decompression, body parse, and (inside package bodycodec) re-masking of
// protected strings with the per-process keystream.
func Open(r io.Reader, sources []compositekey.Source, cb statuscb.Callback) (*model.Database, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	key, err := compositekey.Derive(sources, header.TransformSeed, header.MasterSeed, header.TransformRounds, cb)
	if err != nil {
		return nil, err
	}
	defer vcrypto.Zeroize(key[:])

	ciphertext, err := io.ReadAll(r)
	if err != nil {
		return nil, vaulterr.Wrap(vaulterr.KindIOFailure, "reading encrypted payload", err)
	}

	framed, err := decryptEnvelope([32]byte(key), header.EncryptionIV, ciphertext, header.StreamStartBytes)
	if err != nil {
		return nil, err
	}
	defer vcrypto.Zeroize(framed)

	inner, err := ReadBlockStream(bytes.NewReader(framed))
	if err != nil {
		return nil, err
	}
	defer vcrypto.Zeroize(inner)

	bodyBytes, err := decompress(header.Compression, inner)
	if err != nil {
		return nil, err
	}

	masker := innerstream.New(header.InnerStreamID, header.InnerStreamKey[:])
	defer masker.Zero()

	db, err := bodycodec.Decode(bytes.NewReader(bodyBytes), masker)
	if err != nil {
		return nil, err
	}

	db.DataCipher = header.CipherUUID
	db.Compression = header.Compression
	db.KeyTransformRounds = header.TransformRounds
	db.Open = true
	db.Modified = false
	return db, nil
}

func decompress(c model.Compression, data []byte) ([]byte, error) {
	if c != model.CompressionGZip {
		return data, nil
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, vaulterr.Wrap(vaulterr.KindCorruptPayload, "opening gzip stream", err)
	}
	defer gz.Close()
	out, err := io.ReadAll(gz)
	if err != nil {
		return nil, vaulterr.Wrap(vaulterr.KindCorruptPayload, "inflating payload", err)
	}
	return out, nil
}
