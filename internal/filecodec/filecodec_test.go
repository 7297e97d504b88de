package filecodec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultfile/vaultfile/internal/compositekey"
	"github.com/vaultfile/vaultfile/internal/model"
	"github.com/vaultfile/vaultfile/internal/vaulterr"
)

func newTestDatabase() *model.Database {
	db := model.New()
	db.KeyTransformRounds = 64
	db.Compression = model.CompressionGZip
	e := db.NewEntryIn(db.Root)
	e.SetString(model.FieldTitle, []byte("Site"), false)
	e.SetString(model.FieldUserName, []byte("alice"), false)
	e.SetString(model.FieldPassword, []byte("p4ss!"), true)
	e.SetString(model.FieldURL, []byte("https://x"), false)
	e.SetString(model.FieldNotes, []byte(""), false)
	return db
}

func TestSaveOpenRoundTrip(t *testing.T) {
	db := newTestDatabase()
	sources := []compositekey.Source{compositekey.Passphrase("test")}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, db, sources, nil))

	got, err := Open(bytes.NewReader(buf.Bytes()), sources, nil)
	require.NoError(t, err)

	require.Len(t, got.Root.Entries, 1)
	entry := got.Root.Entries[0]
	title, _ := entry.Strings.Get(model.FieldTitle)
	require.Equal(t, "Site", title.String())
	user, _ := entry.Strings.Get(model.FieldUserName)
	require.Equal(t, "alice", user.String())
	pw, _ := entry.Strings.Get(model.FieldPassword)
	require.True(t, pw.Protected())
	require.Equal(t, "p4ss!", pw.String())
	url, _ := entry.Strings.Get(model.FieldURL)
	require.Equal(t, "https://x", url.String())
}

func TestOpenWithWrongPassphraseFailsInvalidCompositeKey(t *testing.T) {
	db := newTestDatabase()
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, db, []compositekey.Source{compositekey.Passphrase("test")}, nil))

	_, err := Open(bytes.NewReader(buf.Bytes()), []compositekey.Source{compositekey.Passphrase("Test")}, nil)
	require.Error(t, err)
	require.True(t, vaulterr.Of(err, vaulterr.KindInvalidCompositeKey))
}

func TestBitFlipAfterHeaderFailsOpen(t *testing.T) {
	db := newTestDatabase()
	sources := []compositekey.Source{compositekey.Passphrase("test")}
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, db, sources, nil))

	tampered := append([]byte(nil), buf.Bytes()...)
	flipOffset := len(tampered) - 1
	tampered[flipOffset] ^= 0xFF

	_, err := Open(bytes.NewReader(tampered), sources, nil)
	require.Error(t, err)
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		FormatVersion:    FormatVersion,
		CipherUUID:       model.AESCipherUUID,
		Compression:      model.CompressionGZip,
		TransformRounds:  12000,
		InnerStreamID:    model.InnerStreamARX20,
	}
	for i := range h.MasterSeed {
		h.MasterSeed[i] = byte(i)
	}
	copy(h.TransformSeed[:], bytes.Repeat([]byte{0x11}, 32))
	copy(h.EncryptionIV[:], bytes.Repeat([]byte{0x22}, 16))
	copy(h.InnerStreamKey[:], bytes.Repeat([]byte{0x33}, 32))
	copy(h.StreamStartBytes[:], bytes.Repeat([]byte{0x44}, 32))

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	require.Equal(t, h.CipherUUID, got.CipherUUID)
	require.Equal(t, h.Compression, got.Compression)
	require.Equal(t, h.MasterSeed, got.MasterSeed)
	require.Equal(t, h.TransformSeed, got.TransformSeed)
	require.Equal(t, h.TransformRounds, got.TransformRounds)
	require.Equal(t, h.EncryptionIV, got.EncryptionIV)
	require.Equal(t, h.InnerStreamKey, got.InnerStreamKey)
	require.Equal(t, h.StreamStartBytes, got.StreamStartBytes)
	require.Equal(t, h.InnerStreamID, got.InnerStreamID)
}

func TestReadHeaderRejectsUnknownCipher(t *testing.T) {
	h := Header{CipherUUID: model.UUID{0x01}, TransformRounds: 1}
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))

	_, err := ReadHeader(&buf)
	require.Error(t, err)
	require.True(t, vaulterr.Of(err, vaulterr.KindUnknownCipher))
}

func TestBlockStreamRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("hello world "), 100000) // forces multiple blocks

	var buf bytes.Buffer
	require.NoError(t, WriteBlockStream(&buf, payload))

	got, err := ReadBlockStream(&buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestBlockStreamDetectsHashTamper(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBlockStream(&buf, []byte("payload data")))

	tampered := buf.Bytes()
	tampered[10] ^= 0xFF // inside the hash field

	_, err := ReadBlockStream(bytes.NewReader(tampered))
	require.Error(t, err)
	require.True(t, vaulterr.Of(err, vaulterr.KindCorruptPayload))
}

func TestEmptyDatabaseRoundTrips(t *testing.T) {
	db := model.New()
	db.KeyTransformRounds = 16
	sources := []compositekey.Source{compositekey.Passphrase("")}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, db, sources, nil))

	got, err := Open(bytes.NewReader(buf.Bytes()), sources, nil)
	require.NoError(t, err)
	require.NotNil(t, got.Root)
	require.Empty(t, got.Root.Entries)
}

func TestSaveTrimsHistoryBeyondMaxItems(t *testing.T) {
	db := newTestDatabase()
	e := db.Root.Entries[0]
	for i := 0; i < historyMaxItems+5; i++ {
		e.SetString(model.FieldTitle, []byte("revision"), false)
		e.PushHistory()
	}
	require.Len(t, e.History, historyMaxItems+5)

	sources := []compositekey.Source{compositekey.Passphrase("test")}
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, db, sources, nil))

	got, err := Open(bytes.NewReader(buf.Bytes()), sources, nil)
	require.NoError(t, err)
	require.Len(t, got.Root.Entries[0].History, historyMaxItems)
}

func TestDeriveFailsWithoutKeySources(t *testing.T) {
	_, err := compositekey.Derive(nil, [32]byte{}, [32]byte{}, 1, nil)
	require.Error(t, err)
	var ve *vaulterr.Error
	require.True(t, errors.As(err, &ve))
	require.Equal(t, vaulterr.KindInvalidKey, ve.Kind)
}
