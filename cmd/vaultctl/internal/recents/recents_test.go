package recents

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTouchThenListOrdersByMostRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.db")
	reg, err := Open(path)
	require.NoError(t, err)
	defer reg.Close()

	require.NoError(t, reg.Touch("/vaults/a.vaultfile"))
	require.NoError(t, reg.Touch("/vaults/b.vaultfile"))
	require.NoError(t, reg.Touch("/vaults/a.vaultfile"))

	entries, err := reg.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "/vaults/a.vaultfile", entries[0].Path)
}

func TestListRespectsLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.db")
	reg, err := Open(path)
	require.NoError(t, err)
	defer reg.Close()

	for _, p := range []string{"a", "b", "c"} {
		require.NoError(t, reg.Touch(p))
	}

	entries, err := reg.List(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
