// Package merge implements the three-way reconciliation engine of spec
// §4.7: merging a source database into a local one by UUID, under a
// caller-selected policy, including tombstone-driven deletion and history
// reconciliation.
package merge

// Policy selects how MergeIn reconciles an object that exists in both the
// local and source databases (spec §4.7).
type Policy int

const (
	// OverwriteExisting unconditionally copies the source object's fields
	// over the local one.
	OverwriteExisting Policy = iota
	// OverwriteIfNewer copies only when the source's last-modification
	// time is strictly later than the local one's.
	OverwriteIfNewer
	// KeepExisting never touches an object already present locally.
	KeepExisting
	// CreateNewUuids rewrites every UUID in the source database to a fresh
	// value before merging, so the merge behaves like importing a copy
	// rather than reconciling two views of the same data.
	CreateNewUuids
	// Synchronize behaves like OverwriteIfNewer for scalar fields, unions
	// history by timestamp, and reconciles tombstones across both sides.
	Synchronize
)
