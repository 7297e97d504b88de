package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEntryHasStandardFieldsAndNonZeroUUID(t *testing.T) {
	e := NewEntry(DefaultMemoryProtectionConfig().ProtectField)
	require.False(t, e.UUID.IsZero())
	for _, name := range StandardFields {
		v, ok := e.Strings.Get(name)
		require.True(t, ok, "missing standard field %s", name)
		require.Equal(t, "", v.String())
	}
	pw, _ := e.Strings.Get(FieldPassword)
	require.True(t, pw.Protected())
	title, _ := e.Strings.Get(FieldTitle)
	require.False(t, title.Protected())
}

func TestPushHistorySnapshotInvariants(t *testing.T) {
	db := New()
	e := db.NewEntryIn(db.Root)
	e.SetString(FieldTitle, []byte("v1"), false)

	snap := e.PushHistory()
	require.True(t, snap.UUID.Equal(e.UUID))
	require.False(t, snap.Times.LastModificationTime.After(e.Times.LastModificationTime))
	require.Empty(t, snap.History, "history snapshots never nest further history")

	e.SetString(FieldTitle, []byte("v2"), false)
	require.Len(t, e.History, 1)
	title, _ := snap.Strings.Get(FieldTitle)
	require.Equal(t, "v1", title.String())
}

func TestAddEntryFixesParentPointer(t *testing.T) {
	db := New()
	g := db.NewGroupIn(db.Root, "Logins")
	e := db.NewEntryIn(g)
	require.Same(t, g, e.Parent())

	sub := db.NewGroupIn(db.Root, "Sub")
	require.NoError(t, sub.AddEntry(e))
	require.Same(t, sub, e.Parent())
	require.NotContains(t, g.Entries, e)
}

func TestDeleteEntryRecordsTombstone(t *testing.T) {
	db := New()
	e := db.NewEntryIn(db.Root)
	id := e.UUID

	db.DeleteEntry(e)
	require.Nil(t, db.FindEntryByUUID(id))
	require.Len(t, db.Deleted, 1)
	require.True(t, db.Deleted[0].UUID.Equal(id))
}

func TestTagsAreUniqueAndSorted(t *testing.T) {
	e := NewEntry(DefaultMemoryProtectionConfig().ProtectField)
	e.AddTag("zeta")
	e.AddTag("alpha")
	e.AddTag("alpha")
	require.Equal(t, []string{"alpha", "zeta"}, e.Tags)
}

func TestSearchByTitle(t *testing.T) {
	db := New()
	e1 := db.NewEntryIn(db.Root)
	e1.SetString(FieldTitle, []byte("Bank Account"), false)
	e2 := db.NewEntryIn(db.Root)
	e2.SetString(FieldTitle, []byte("Email"), false)

	results, err := Search(db.Root, "bank", SearchOptions{Fields: FieldTitles})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].UUID.Equal(e1.UUID))
}

func TestAddEntryRejectsZeroUUID(t *testing.T) {
	db := New()
	e := &Entry{}
	err := db.Root.AddEntry(e)
	require.Error(t, err)
	require.Nil(t, e.Parent())
}

func TestAddEntryRejectsDuplicateUUID(t *testing.T) {
	db := New()
	e1 := db.NewEntryIn(db.Root)
	sub := db.NewGroupIn(db.Root, "Sub")

	dup := &Entry{UUID: e1.UUID}
	err := sub.AddEntry(dup)
	require.Error(t, err)
	require.Nil(t, dup.Parent())
}

func TestAddGroupRejectsDuplicateUUID(t *testing.T) {
	db := New()
	g1 := db.NewGroupIn(db.Root, "Logins")

	dup := &Group{UUID: g1.UUID}
	err := db.Root.AddGroup(dup)
	require.Error(t, err)
	require.Nil(t, dup.Parent())
}

func TestAddGroupAllowsRelocatingWithoutPriorDetach(t *testing.T) {
	db := New()
	g1 := db.NewGroupIn(db.Root, "Logins")
	sub := db.NewGroupIn(db.Root, "Sub")

	require.NoError(t, sub.AddGroup(g1))
	require.Same(t, sub, g1.Parent())
	require.NotContains(t, db.Root.Groups, g1)
}

func TestWalkVisitsGroupsThenEntriesPreOrder(t *testing.T) {
	db := New()
	e := db.NewEntryIn(db.Root)
	sub := db.NewGroupIn(db.Root, "Sub")
	subEntry := db.NewEntryIn(sub)

	var order []string
	Walk(db.Root, func(g *Group, en *Entry) WalkAction {
		switch {
		case en != nil:
			order = append(order, "entry:"+en.UUID.Hex())
		default:
			order = append(order, "group:"+g.Name)
		}
		return WalkContinue
	})
	require.Equal(t, []string{
		"group:Root",
		"entry:" + e.UUID.Hex(),
		"group:Sub",
		"entry:" + subEntry.UUID.Hex(),
	}, order)
}
