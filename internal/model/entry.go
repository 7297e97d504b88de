package model

import (
	"sort"

	"github.com/vaultfile/vaultfile/internal/protectedstring"
)

// Entry is a single secret record (spec §3).
type Entry struct {
	UUID            UUID
	IconID          uint32
	CustomIconUUID  *UUID
	Strings         StringBag
	Binaries        BinaryBag
	AutoType        AutoType
	History         []*Entry
	Times           Times
	ForegroundColor *string
	BackgroundColor *string
	OverrideURL     *string
	Tags            []string

	// UnknownElements preserves any body-codec elements this parse didn't
	// recognize, keyed by tag name, so they round-trip unchanged even
	// across a format minor-version this build doesn't know about (spec
	// §4.6, §9 "Unknown XML preservation").
	UnknownElements []RawElement

	parent *Group
}

// NewEntry creates a fresh entry with a new UUID, current timestamps, the
// standard fields present (empty) with protection from protectionOf, and
// auto-type enabled.
func NewEntry(protectionOf func(name string) bool) *Entry {
	e := &Entry{
		UUID:     NewUUID(),
		Times:    NewTimes(),
		AutoType: NewAutoType(),
	}
	e.Strings.EnsureStandardFields(protectionOf)
	return e
}

// Parent returns the entry's owning group, or nil if detached.
func (e *Entry) Parent() *Group { return e.parent }

// HasTag reports whether tag is present (case-sensitive, per the set
// semantics of spec §3).
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag adds tag if not already present, keeping Tags sorted so the set
// has a stable, deterministic serialization order.
func (e *Entry) AddTag(tag string) {
	if e.HasTag(tag) {
		return
	}
	e.Tags = append(e.Tags, tag)
	sort.Strings(e.Tags)
}

// RemoveTag removes tag if present.
func (e *Entry) RemoveTag(tag string) {
	for i, t := range e.Tags {
		if t == tag {
			e.Tags = append(e.Tags[:i], e.Tags[i+1:]...)
			return
		}
	}
}

// SetString sets a string field and records the edit in Times.
func (e *Entry) SetString(key string, value []byte, protect bool) {
	e.Strings.Set(key, protectedstring.New(value, protect))
	e.Times.Modify()
}

// SetBinary sets a binary attachment and records the edit in Times.
func (e *Entry) SetBinary(key string, data []byte) {
	e.Binaries.Set(key, data)
	e.Times.Modify()
}

// PushHistory snapshots the entry's current field values (not its history,
// which per spec §3 never nests) onto History, and returns the snapshot.
// Callers should call this before mutating an entry that already exists in
// the database, mirroring spec §3's "editing an entry ... pushes a
// snapshot to history".
func (e *Entry) PushHistory() *Entry {
	snap := e.snapshot()
	e.History = append(e.History, snap)
	return snap
}

// snapshot returns a copy of e with an empty History, suitable for storing
// as one of e's own history entries.
func (e *Entry) snapshot() *Entry {
	cp := &Entry{
		UUID:            e.UUID,
		IconID:          e.IconID,
		Strings:         e.Strings.Clone(),
		Binaries:        e.Binaries.Clone(),
		AutoType:        e.AutoType.Clone(),
		Times:           e.Times,
		Tags:            append([]string(nil), e.Tags...),
		UnknownElements: append([]RawElement(nil), e.UnknownElements...),
	}
	if e.CustomIconUUID != nil {
		id := *e.CustomIconUUID
		cp.CustomIconUUID = &id
	}
	if e.ForegroundColor != nil {
		v := *e.ForegroundColor
		cp.ForegroundColor = &v
	}
	if e.BackgroundColor != nil {
		v := *e.BackgroundColor
		cp.BackgroundColor = &v
	}
	if e.OverrideURL != nil {
		v := *e.OverrideURL
		cp.OverrideURL = &v
	}
	return cp
}

// TrimHistory drops history snapshots beyond maxItems (most recent kept,
// oldest dropped first) and any snapshot older than maxAgeDays, per spec
// §3 ("history is trimmed by count and by age-in-days at save time").
// A maxItems <= 0 or maxAgeDays <= 0 disables that respective limit.
func (e *Entry) TrimHistory(maxItems int, maxAgeDays uint32, now Timestamp) {
	if maxAgeDays > 0 {
		cutoff := now.Time().AddDate(0, 0, -int(maxAgeDays))
		kept := e.History[:0:0]
		for _, h := range e.History {
			if !h.Times.LastModificationTime.Time().Before(cutoff) {
				kept = append(kept, h)
			}
		}
		e.History = kept
	}
	if maxItems > 0 && len(e.History) > maxItems {
		e.History = e.History[len(e.History)-maxItems:]
	}
}
