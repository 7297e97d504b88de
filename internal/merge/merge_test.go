package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vaultfile/vaultfile/internal/model"
)

func TestSynchronizeAdoptsNewEntryFromSource(t *testing.T) {
	local := model.New()
	e1 := local.NewEntryIn(local.Root)
	e1.SetString(model.FieldTitle, []byte("E1"), false)

	source := model.New()
	se1 := &model.Entry{UUID: e1.UUID, Times: model.NewTimes()}
	se1.Strings.EnsureStandardFields(model.DefaultMemoryProtectionConfig().ProtectField)
	se1.SetString(model.FieldTitle, []byte("E1"), false)
	require.NoError(t, source.Root.AttachEntry(se1))

	e2 := source.NewEntryIn(source.Root)
	e2.SetString(model.FieldTitle, []byte("E2"), false)

	require.NoError(t, MergeIn(local, source, Synchronize))

	require.Len(t, local.Root.Entries, 2)
	require.NotNil(t, local.FindEntryByUUID(e2.UUID))
}

func TestSynchronizeTombstoneRemovesStaleEntry(t *testing.T) {
	local := model.New()
	e1 := local.NewEntryIn(local.Root)
	e1.Times.LastModificationTime = model.NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	source := model.New()
	source.Deleted = append(source.Deleted, model.DeletedObject{
		UUID:         e1.UUID,
		DeletionTime: model.NewTimestamp(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	})

	require.NoError(t, MergeIn(local, source, Synchronize))

	require.Nil(t, local.FindEntryByUUID(e1.UUID))
	found := false
	for _, d := range local.Deleted {
		if d.UUID.Equal(e1.UUID) {
			found = true
		}
	}
	require.True(t, found)
}

func TestOverwriteIfNewerKeepsLocalWhenNotNewer(t *testing.T) {
	local := model.New()
	e := local.NewEntryIn(local.Root)
	e.SetString(model.FieldTitle, []byte("Local"), false)
	e.Times.LastModificationTime = model.NewTimestamp(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	source := model.New()
	se := &model.Entry{UUID: e.UUID, Times: model.NewTimes()}
	se.Times.LastModificationTime = model.NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	se.Strings.EnsureStandardFields(model.DefaultMemoryProtectionConfig().ProtectField)
	se.SetString(model.FieldTitle, []byte("Source"), false)
	require.NoError(t, source.Root.AttachEntry(se))

	require.NoError(t, MergeIn(local, source, OverwriteIfNewer))

	title, _ := e.Strings.Get(model.FieldTitle)
	require.Equal(t, "Local", title.String())
}

func TestCreateNewUuidsAssignsFreshIdentities(t *testing.T) {
	local := model.New()
	source := model.New()
	e := source.NewEntryIn(source.Root)
	originalID := e.UUID

	require.NoError(t, MergeIn(local, source, CreateNewUuids))

	require.Nil(t, local.FindEntryByUUID(originalID))
	require.Len(t, local.Root.Entries, 1)
	require.False(t, local.Root.Entries[0].UUID.Equal(originalID))
}

func TestSynchronizeUnionsHistoryByTimestamp(t *testing.T) {
	local := model.New()
	e := local.NewEntryIn(local.Root)
	e.Times.LastModificationTime = model.NewTimestamp(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	localSnap := &model.Entry{UUID: e.UUID, Times: model.NewTimes()}
	localSnap.Times.LastModificationTime = model.NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	e.History = append(e.History, localSnap)

	source := model.New()
	se := &model.Entry{UUID: e.UUID, Times: model.NewTimes()}
	se.Times.LastModificationTime = model.NewTimestamp(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	sourceSnap := &model.Entry{UUID: e.UUID, Times: model.NewTimes()}
	sourceSnap.Times.LastModificationTime = model.NewTimestamp(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	se.History = append(se.History, sourceSnap)
	require.NoError(t, source.Root.AttachEntry(se))

	require.NoError(t, MergeIn(local, source, Synchronize))

	require.Len(t, e.History, 2)
}
