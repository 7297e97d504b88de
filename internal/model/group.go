package model

import "github.com/vaultfile/vaultfile/internal/vaulterr"

// Group is a container node in the entity tree (spec §3).
type Group struct {
	UUID                     UUID
	Name                     string
	Notes                    string
	IconID                   uint32
	CustomIconUUID           *UUID
	Times                    Times
	Expanded                 bool
	DefaultAutoTypeSequence  *string
	EnableAutoType           TriState
	EnableSearching          TriState
	LastTopVisibleEntry      *UUID
	Groups                   []*Group
	Entries                  []*Entry
	UnknownElements          []RawElement

	parent *Group
}

// NewGroup creates a fresh, empty group with a new UUID and current
// timestamps.
func NewGroup(name string) *Group {
	return &Group{
		UUID:     NewUUID(),
		Name:     name,
		Times:    NewTimes(),
		Expanded: true,
	}
}

// NewRoot creates the database's single root group.
func NewRoot() *Group {
	return NewGroup("Root")
}

// Parent returns the group's parent, or nil for the root.
func (g *Group) Parent() *Group { return g.parent }

// IsRoot reports whether g has no parent.
func (g *Group) IsRoot() bool { return g.parent == nil }

// AddGroup appends child as a subgroup of g, fixing up its parent pointer
// and location-changed timestamp. Rejects a zero or already-present UUID
// (spec §3, Group invariants: "uuid unique"; spec.md:187, "A UUID of all
// zeros in input is rejected").
func (g *Group) AddGroup(child *Group) error {
	if err := g.validateGroupAttach(child); err != nil {
		return err
	}
	if child.parent != nil {
		child.parent.removeGroupPointer(child)
	}
	child.parent = g
	child.Times.Move()
	g.Groups = append(g.Groups, child)
	return nil
}

// AttachGroup appends child as a subgroup of g without touching its
// timestamps, for reconstructing a tree from previously serialized state
// (the body codec) where Times must be preserved exactly as decoded. Same
// UUID validation as AddGroup.
func (g *Group) AttachGroup(child *Group) error {
	if err := g.validateGroupAttach(child); err != nil {
		return err
	}
	child.parent = g
	g.Groups = append(g.Groups, child)
	return nil
}

// AttachEntry appends e to g without touching its timestamps, for
// reconstructing a tree from previously serialized state. Same UUID
// validation as AddEntry.
func (g *Group) AttachEntry(e *Entry) error {
	if err := g.validateEntryAttach(e); err != nil {
		return err
	}
	e.parent = g
	g.Entries = append(g.Entries, e)
	return nil
}

// treeRoot walks up to the root of g's tree.
func (g *Group) treeRoot() *Group {
	cur := g
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// validateGroupAttach rejects a zero UUID outright, and one already
// present elsewhere in g's tree under a different node than child itself
// (spec.md:182, "for every entry e, e.uuid != 0 and is unique among live
// entries"; applied to groups too, per the Group invariant "uuid unique").
// Comparing by identity against the match, rather than simply checking
// "found", lets a caller re-add an already-attached child (e.g. moving it
// to a new parent) without first detaching it.
func (g *Group) validateGroupAttach(child *Group) error {
	if child.UUID.IsZero() {
		return vaulterr.New(vaulterr.KindMalformedBody, "Group UUID is all-zero")
	}
	if found := g.treeRoot().FindGroupByUUID(child.UUID); found != nil && found != child {
		return vaulterr.New(vaulterr.KindMalformedBody, "duplicate group UUID "+child.UUID.Hex())
	}
	return nil
}

// validateEntryAttach is validateGroupAttach's entry counterpart.
func (g *Group) validateEntryAttach(e *Entry) error {
	if e.UUID.IsZero() {
		return vaulterr.New(vaulterr.KindMalformedBody, "Entry UUID is all-zero")
	}
	if found := g.treeRoot().FindEntryByUUID(e.UUID); found != nil && found != e {
		return vaulterr.New(vaulterr.KindMalformedBody, "duplicate entry UUID "+e.UUID.Hex())
	}
	return nil
}

// RemoveGroup detaches child from g, if present.
func (g *Group) RemoveGroup(child *Group) bool {
	for i, sub := range g.Groups {
		if sub == child {
			g.Groups = append(g.Groups[:i], g.Groups[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

func (g *Group) removeGroupPointer(child *Group) {
	g.RemoveGroup(child)
}

// AddEntry appends e to g, fixing up its parent pointer and
// location-changed timestamp. Rejects a zero or already-present UUID, same
// as AddGroup.
func (g *Group) AddEntry(e *Entry) error {
	if err := g.validateEntryAttach(e); err != nil {
		return err
	}
	if e.parent != nil {
		e.parent.RemoveEntry(e)
	}
	e.parent = g
	e.Times.Move()
	g.Entries = append(g.Entries, e)
	return nil
}

// RemoveEntry detaches e from g, if present.
func (g *Group) RemoveEntry(e *Entry) bool {
	for i, ent := range g.Entries {
		if ent == e {
			g.Entries = append(g.Entries[:i], g.Entries[i+1:]...)
			e.parent = nil
			return true
		}
	}
	return false
}

// FindGroupByUUID searches g and its descendants depth-first.
func (g *Group) FindGroupByUUID(id UUID) *Group {
	if g.UUID.Equal(id) {
		return g
	}
	for _, sub := range g.Groups {
		if found := sub.FindGroupByUUID(id); found != nil {
			return found
		}
	}
	return nil
}

// FindEntryByUUID searches g and its descendants depth-first.
func (g *Group) FindEntryByUUID(id UUID) *Entry {
	for _, e := range g.Entries {
		if e.UUID.Equal(id) {
			return e
		}
	}
	for _, sub := range g.Groups {
		if found := sub.FindEntryByUUID(id); found != nil {
			return found
		}
	}
	return nil
}
