package iolocation

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestSaveAtomicCreatesFileWithExpectedContents(t *testing.T) {
	fs := afero.NewMemMapFs()
	loc := NewWithFs(fs, "/vaults/work.vaultfile")

	err := SaveAtomic(loc, func(w io.Writer) error {
		_, werr := w.Write([]byte("payload"))
		return werr
	})
	require.NoError(t, err)

	exists, err := loc.Exists()
	require.NoError(t, err)
	require.True(t, exists)

	f, err := loc.OpenRead()
	require.NoError(t, err)
	defer f.Close()
	var buf bytes.Buffer
	_, err = io.Copy(&buf, f)
	require.NoError(t, err)
	require.Equal(t, "payload", buf.String())

	tmpExists, err := afero.Exists(fs, "/vaults/work.vaultfile.tmp")
	require.NoError(t, err)
	require.False(t, tmpExists)
}

func TestSaveAtomicLeavesPriorFileIntactOnWriteFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	loc := NewWithFs(fs, "/vaults/work.vaultfile")
	require.NoError(t, afero.WriteFile(fs, loc.path, []byte("original"), 0o600))

	err := SaveAtomic(loc, func(w io.Writer) error {
		return io.ErrClosedPipe
	})
	require.Error(t, err)

	data, err := afero.ReadFile(fs, loc.path)
	require.NoError(t, err)
	require.Equal(t, "original", string(data))

	tmpExists, err := afero.Exists(fs, loc.path+".tmp")
	require.NoError(t, err)
	require.False(t, tmpExists)
}

func TestDeleteAndExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	loc := NewWithFs(fs, "/vaults/work.vaultfile")
	require.NoError(t, afero.WriteFile(fs, loc.path, []byte("x"), 0o600))

	exists, err := loc.Exists()
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, loc.Delete())

	exists, err = loc.Exists()
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRename(t *testing.T) {
	fs := afero.NewMemMapFs()
	loc := NewWithFs(fs, "/vaults/work.vaultfile")
	require.NoError(t, afero.WriteFile(fs, loc.path, []byte("x"), 0o600))

	require.NoError(t, loc.Rename("/vaults/renamed.vaultfile"))

	exists, err := afero.Exists(fs, "/vaults/renamed.vaultfile")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestLockTryAcquireAndRelease(t *testing.T) {
	fs := afero.NewMemMapFs()
	loc := NewWithFs(fs, "/vaults/work.vaultfile")
	lock := NewLock(loc)

	ok, identity, err := lock.TryAcquire()
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, identity)

	ok, owner, err := lock.TryAcquire()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, identity, owner)

	require.NoError(t, lock.Release())

	ok, _, err = lock.TryAcquire()
	require.NoError(t, err)
	require.True(t, ok)
}
