package bodycodec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultfile/vaultfile/internal/innerstream"
	"github.com/vaultfile/vaultfile/internal/model"
)

func newMaskerPair(t *testing.T) (*innerstream.Masker, *innerstream.Masker) {
	t.Helper()
	seed := bytes.Repeat([]byte{0x42}, 32)
	return innerstream.New(model.InnerStreamARX20, seed), innerstream.New(model.InnerStreamARX20, seed)
}

func buildTestDatabase() *model.Database {
	db := model.New()
	db.Name = "Test Vault"
	db.Description = "a sample vault"

	work := db.NewGroupIn(db.Root, "Work")
	e := db.NewEntryIn(work)
	e.SetString(model.FieldTitle, []byte("Example"), false)
	e.SetString(model.FieldUserName, []byte("alice"), false)
	e.SetString(model.FieldPassword, []byte("hunter2"), true)
	e.SetString(model.FieldNotes, []byte("first line\nsecond line"), false)
	e.AddTag("important")
	e.SetBinary("attachment.txt", []byte("binary payload"))
	e.PushHistory()
	e.SetString(model.FieldTitle, []byte("Example v2"), false)

	db.NewGroupIn(work, "Subfolder")
	return db
}

func TestEncodeDecodeRoundTripsEntryFields(t *testing.T) {
	writeMasker, readMasker := newMaskerPair(t)
	db := buildTestDatabase()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, writeMasker))
	writeMasker.Zero()

	got, err := Decode(&buf, readMasker)
	require.NoError(t, err)
	readMasker.Zero()

	require.Equal(t, "Test Vault", got.Name)
	require.Equal(t, "a sample vault", got.Description)
	require.Len(t, got.Root.Groups, 1)

	work := got.Root.Groups[0]
	require.Equal(t, "Work", work.Name)
	require.Len(t, work.Entries, 1)
	require.Len(t, work.Groups, 1)
	require.Equal(t, "Subfolder", work.Groups[0].Name)

	entry := work.Entries[0]
	title, ok := entry.Strings.Get(model.FieldTitle)
	require.True(t, ok)
	require.Equal(t, "Example v2", title.String())

	pw, ok := entry.Strings.Get(model.FieldPassword)
	require.True(t, ok)
	require.True(t, pw.Protected())
	require.Equal(t, "hunter2", pw.String())

	notes, ok := entry.Strings.Get(model.FieldNotes)
	require.True(t, ok)
	require.Equal(t, "first line\nsecond line", notes.String())

	require.True(t, entry.HasTag("important"))

	data, ok := entry.Binaries.Get("attachment.txt")
	require.True(t, ok)
	require.Equal(t, []byte("binary payload"), data)

	require.Len(t, entry.History, 1)
	oldTitle, ok := entry.History[0].Strings.Get(model.FieldTitle)
	require.True(t, ok)
	require.Equal(t, "Example", oldTitle.String())
}

func TestDecodePreservesUnknownElements(t *testing.T) {
	writeMasker, readMasker := newMaskerPair(t)
	var buf bytes.Buffer
	db := model.New()
	require.NoError(t, Encode(&buf, db, writeMasker))
	writeMasker.Zero()

	injected := injectElement(buf.String(), "</Group>", "<FutureField>keep me</FutureField></Group>")

	got, err := Decode(bytes.NewReader([]byte(injected)), readMasker)
	require.NoError(t, err)
	readMasker.Zero()

	require.Len(t, got.Root.UnknownElements, 1)
	require.Equal(t, "FutureField", got.Root.UnknownElements[0].Name)
	require.Contains(t, string(got.Root.UnknownElements[0].InnerXML), "keep me")

	var out bytes.Buffer
	writeMasker2 := innerstream.New(model.InnerStreamARX20, bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, Encode(&out, got, writeMasker2))
	writeMasker2.Zero()
	require.Contains(t, out.String(), "<FutureField>keep me</FutureField>")
}

// injectElement inserts replacement in place of the first occurrence of
// marker, used to simulate a newer minor-version writer adding a field this
// build doesn't recognize.
func injectElement(doc, marker, replacement string) string {
	idx := bytes.Index([]byte(doc), []byte(marker))
	if idx < 0 {
		return doc
	}
	return doc[:idx] + replacement + doc[idx+len(marker):]
}

func TestDecodeRejectsZeroEntryUUID(t *testing.T) {
	writeMasker, readMasker := newMaskerPair(t)
	db := model.New()
	e := db.NewEntryIn(db.Root)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, writeMasker))
	writeMasker.Zero()

	zero := model.UUID{}
	doc := strings.Replace(buf.String(), e.UUID.Base64(), zero.Base64(), 1)

	_, err := Decode(strings.NewReader(doc), readMasker)
	require.Error(t, err)
}

func TestDecodeRejectsDuplicateEntryUUID(t *testing.T) {
	writeMasker, readMasker := newMaskerPair(t)
	db := model.New()
	e1 := db.NewEntryIn(db.Root)
	e2 := db.NewEntryIn(db.Root)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, writeMasker))
	writeMasker.Zero()

	doc := strings.Replace(buf.String(), e2.UUID.Base64(), e1.UUID.Base64(), 1)

	_, err := Decode(strings.NewReader(doc), readMasker)
	require.Error(t, err)
}

func TestDecodeFillsInMissingStandardFields(t *testing.T) {
	writeMasker, readMasker := newMaskerPair(t)
	db := model.New()
	db.NewEntryIn(db.Root)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, writeMasker))
	writeMasker.Zero()

	doc := strings.Replace(buf.String(),
		"<String><Key>Notes</Key><Value></Value></String>", "", 1)
	require.NotEqual(t, buf.String(), doc, "fixture no longer contains the expected Notes field")

	got, err := Decode(strings.NewReader(doc), readMasker)
	require.NoError(t, err)
	readMasker.Zero()

	_, ok := got.Root.Entries[0].Strings.Get(model.FieldNotes)
	require.True(t, ok)
}

func TestProtectedStringsAreMaskedOnWire(t *testing.T) {
	writeMasker, _ := newMaskerPair(t)
	db := model.New()
	e := db.NewEntryIn(db.Root)
	e.SetString(model.FieldPassword, []byte("super-secret"), true)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, writeMasker))
	writeMasker.Zero()

	require.NotContains(t, buf.String(), "super-secret")
}
