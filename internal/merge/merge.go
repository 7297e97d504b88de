package merge

import (
	"sort"

	"github.com/vaultfile/vaultfile/internal/model"
)

// MergeIn reconciles source into local under policy, per spec §4.7. local is
// mutated in place; source is left unmodified unless policy is
// CreateNewUuids, in which case source's own UUIDs are rewritten first (the
// documented way to turn a merge into "import as new copies").
func MergeIn(local, source *model.Database, policy Policy) error {
	if policy == CreateNewUuids {
		rewriteUUIDs(source)
	}

	// CreateNewUuids guarantees (barring an astronomically unlikely UUID
	// collision) that nothing in the now-rewritten source matches an
	// existing local UUID, so every object takes the "create" branch
	// regardless of which branch the switch below would otherwise pick;
	// OverwriteExisting is used as that branch's policy for field copies.
	effective := policy
	if effective == CreateNewUuids {
		effective = OverwriteExisting
	}

	if err := mergeGroupChildren(source.Root, local.Root, local, effective); err != nil {
		return err
	}

	if policy == Synchronize {
		reconcileTombstones(local, source)
	}
	return nil
}

func mergeGroupChildren(sParent *model.Group, lParent *model.Group, local *model.Database, policy Policy) error {
	for _, sGroup := range sParent.Groups {
		lGroup := local.FindGroupByUUID(sGroup.UUID)
		if lGroup == nil {
			lGroup = &model.Group{UUID: sGroup.UUID}
			copyGroupFields(lGroup, sGroup)
			if err := lParent.AttachGroup(lGroup); err != nil {
				return err
			}
		} else {
			applyGroupPolicy(lGroup, sGroup, policy)
			if policy == Synchronize {
				if err := relocateGroup(lGroup, sGroup, lParent); err != nil {
					return err
				}
			}
		}
		if err := mergeGroupChildren(sGroup, lGroup, local, policy); err != nil {
			return err
		}
	}

	for _, sEntry := range sParent.Entries {
		lEntry := local.FindEntryByUUID(sEntry.UUID)
		if lEntry == nil {
			lEntry = &model.Entry{UUID: sEntry.UUID}
			copyEntryFields(lEntry, sEntry)
			lEntry.History = cloneHistory(sEntry.History)
			if err := lParent.AttachEntry(lEntry); err != nil {
				return err
			}
			continue
		}
		applyEntryPolicy(lEntry, sEntry, policy)
		if policy == Synchronize {
			if err := relocateEntry(lEntry, sEntry, lParent); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyGroupPolicy(lGroup, sGroup *model.Group, policy Policy) {
	switch policy {
	case KeepExisting:
		return
	case OverwriteExisting:
		copyGroupFields(lGroup, sGroup)
	case OverwriteIfNewer, Synchronize:
		if sGroup.Times.LastModificationTime.After(lGroup.Times.LastModificationTime) {
			copyGroupFields(lGroup, sGroup)
		}
	}
}

func applyEntryPolicy(lEntry, sEntry *model.Entry, policy Policy) {
	switch policy {
	case KeepExisting:
		return
	case OverwriteExisting:
		copyEntryFields(lEntry, sEntry)
		lEntry.History = cloneHistory(sEntry.History)
	case OverwriteIfNewer:
		if sEntry.Times.LastModificationTime.After(lEntry.Times.LastModificationTime) {
			copyEntryFields(lEntry, sEntry)
			lEntry.History = cloneHistory(sEntry.History)
		}
	case Synchronize:
		if sEntry.Times.LastModificationTime.After(lEntry.Times.LastModificationTime) {
			copyEntryFields(lEntry, sEntry)
		}
		lEntry.History = unionHistory(lEntry.History, sEntry.History)
	}
}

// relocateGroup moves lGroup under lParent when sGroup's location_changed
// timestamp is newer than lGroup's own, even if the overall modification
// policy didn't otherwise overwrite lGroup's fields (spec §4.7,
// "Synchronize ... may relocate entries if location_changed differs" —
// applied symmetrically to groups, since the tree has no reason to treat
// the two kinds of node differently here).
func relocateGroup(lGroup, sGroup *model.Group, lParent *model.Group) error {
	if !sGroup.Times.LocationChanged.After(lGroup.Times.LocationChanged) {
		return nil
	}
	if lGroup.Parent() == lParent {
		lGroup.Times.LocationChanged = sGroup.Times.LocationChanged
		return nil
	}
	if p := lGroup.Parent(); p != nil {
		p.RemoveGroup(lGroup)
	}
	if err := lParent.AttachGroup(lGroup); err != nil {
		return err
	}
	lGroup.Times.LocationChanged = sGroup.Times.LocationChanged
	return nil
}

func relocateEntry(lEntry, sEntry *model.Entry, lParent *model.Group) error {
	if !sEntry.Times.LocationChanged.After(lEntry.Times.LocationChanged) {
		return nil
	}
	if lEntry.Parent() == lParent {
		lEntry.Times.LocationChanged = sEntry.Times.LocationChanged
		return nil
	}
	if p := lEntry.Parent(); p != nil {
		p.RemoveEntry(lEntry)
	}
	if err := lParent.AttachEntry(lEntry); err != nil {
		return err
	}
	lEntry.Times.LocationChanged = sEntry.Times.LocationChanged
	return nil
}

func copyGroupFields(dst, src *model.Group) {
	dst.Name = src.Name
	dst.Notes = src.Notes
	dst.IconID = src.IconID
	dst.CustomIconUUID = cloneUUIDPtr(src.CustomIconUUID)
	dst.Times = src.Times
	dst.Expanded = src.Expanded
	dst.DefaultAutoTypeSequence = cloneStringPtr(src.DefaultAutoTypeSequence)
	dst.EnableAutoType = src.EnableAutoType
	dst.EnableSearching = src.EnableSearching
	dst.LastTopVisibleEntry = cloneUUIDPtr(src.LastTopVisibleEntry)
	dst.UnknownElements = append([]model.RawElement(nil), src.UnknownElements...)
}

func copyEntryFields(dst, src *model.Entry) {
	dst.IconID = src.IconID
	dst.CustomIconUUID = cloneUUIDPtr(src.CustomIconUUID)
	dst.Strings = src.Strings.Clone()
	dst.Binaries = src.Binaries.Clone()
	dst.AutoType = src.AutoType.Clone()
	dst.Times = src.Times
	dst.ForegroundColor = cloneStringPtr(src.ForegroundColor)
	dst.BackgroundColor = cloneStringPtr(src.BackgroundColor)
	dst.OverrideURL = cloneStringPtr(src.OverrideURL)
	dst.Tags = append([]string(nil), src.Tags...)
	dst.UnknownElements = append([]model.RawElement(nil), src.UnknownElements...)
}

func cloneHistory(hist []*model.Entry) []*model.Entry {
	if len(hist) == 0 {
		return nil
	}
	out := make([]*model.Entry, len(hist))
	for i, h := range hist {
		snap := &model.Entry{UUID: h.UUID}
		copyEntryFields(snap, h)
		out[i] = snap
	}
	return out
}

// unionHistory merges two history lists by LastModificationTime, preferring
// the source's snapshot when both sides have one at the same timestamp
// (spec §9, open question (b): "implementations should prefer the source
// database under Synchronize").
func unionHistory(local, source []*model.Entry) []*model.Entry {
	byTime := map[int64]*model.Entry{}
	order := []int64{}
	add := func(h *model.Entry, preferOverwrite bool) {
		key := h.Times.LastModificationTime.Time().Unix()
		if _, exists := byTime[key]; !exists {
			order = append(order, key)
		} else if !preferOverwrite {
			return
		}
		snap := &model.Entry{UUID: h.UUID}
		copyEntryFields(snap, h)
		byTime[key] = snap
	}
	for _, h := range local {
		add(h, false)
	}
	for _, h := range source {
		add(h, true)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]*model.Entry, len(order))
	for i, k := range order {
		out[i] = byTime[k]
	}
	return out
}

func cloneUUIDPtr(id *model.UUID) *model.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// rewriteUUIDs assigns fresh UUIDs to every group and entry (including
// history snapshots, which must keep sharing their owning entry's new
// UUID) in db, for the CreateNewUuids policy (spec §4.7 step 1).
func rewriteUUIDs(db *model.Database) {
	rewriteGroupUUIDs(db.Root)
}

func rewriteGroupUUIDs(g *model.Group) {
	g.UUID = model.NewUUID()
	for _, sub := range g.Groups {
		rewriteGroupUUIDs(sub)
	}
	for _, e := range g.Entries {
		newID := model.NewUUID()
		e.UUID = newID
		for _, h := range e.History {
			h.UUID = newID
		}
	}
}
