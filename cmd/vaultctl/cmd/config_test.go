package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultfile/vaultfile"
)

func TestParseMergePolicy(t *testing.T) {
	cases := []struct {
		name    string
		want    vaultfile.MergePolicy
		wantErr bool
	}{
		{"overwrite", vaultfile.OverwriteExisting, false},
		{"overwrite-if-newer", vaultfile.OverwriteIfNewer, false},
		{"keep-existing", vaultfile.KeepExisting, false},
		{"create-new-uuids", vaultfile.CreateNewUuids, false},
		{"synchronize", vaultfile.Synchronize, false},
		{"", vaultfile.Synchronize, false},
		{"bogus", 0, true},
	}
	for _, c := range cases {
		got, err := parseMergePolicy(c.name)
		if c.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestParseFieldMaskDefaultsToAll(t *testing.T) {
	require.Equal(t, vaultfile.FieldAll, parseFieldMask(""))
}

func TestParseFieldMaskSelectsNamedFields(t *testing.T) {
	mask := parseFieldMask("title,url")
	require.Equal(t, vaultfile.FieldTitles|vaultfile.FieldURLs, mask)
}

func TestDefaultConfigMatchesNewDatabaseDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, uint64(6000), cfg.Rounds)
	require.Equal(t, vaultfile.CompressionGZip, cfg.compression())
}
