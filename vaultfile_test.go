package vaultfile_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultfile/vaultfile"
)

func TestSaveFileAsThenOpenFileRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.vaultfile")

	db := vaultfile.New()
	db.KeyTransformRounds = 4
	db.Compression = vaultfile.CompressionGZip
	e := db.NewEntryIn(db.Root)
	e.SetString(vaultfile.FieldTitle, []byte("Mail"), false)

	sources := []vaultfile.KeySource{vaultfile.Passphrase("correct horse battery staple")}
	require.NoError(t, vaultfile.SaveFileAs(db, path, sources, nil))
	require.Equal(t, path, db.Source)
	require.False(t, db.Modified)

	reopened, err := vaultfile.OpenFile(path, sources, nil)
	require.NoError(t, err)
	require.Len(t, reopened.Root.Entries, 1)

	title, ok := reopened.Root.Entries[0].Strings.Get(vaultfile.FieldTitle)
	require.True(t, ok)
	require.Equal(t, "Mail", title.String())
}

func TestOpenFileWithWrongPassphraseFailsInvalidCompositeKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.vaultfile")

	db := vaultfile.New()
	db.KeyTransformRounds = 4
	require.NoError(t, vaultfile.SaveFileAs(db, path, []vaultfile.KeySource{vaultfile.Passphrase("right")}, nil))

	_, err := vaultfile.OpenFile(path, []vaultfile.KeySource{vaultfile.Passphrase("wrong")}, nil)
	require.Error(t, err)
	require.True(t, vaultfile.Of(err, vaultfile.ErrInvalidCompositeKey.Kind))
}

func TestSaveFileWithoutSourceFails(t *testing.T) {
	db := vaultfile.New()
	err := vaultfile.SaveFile(db, []vaultfile.KeySource{vaultfile.Passphrase("x")}, nil)
	require.Error(t, err)
}

func TestAcquireLockDetectsContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.vaultfile")
	lock := vaultfile.AcquireLock(path)

	ok, _, err := lock.TryAcquire()
	require.NoError(t, err)
	require.True(t, ok)

	ok, owner, err := lock.TryAcquire()
	require.NoError(t, err)
	require.False(t, ok)
	require.NotEmpty(t, owner)

	require.NoError(t, lock.Release())
}
