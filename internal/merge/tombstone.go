package merge

import (
	"sort"

	"github.com/vaultfile/vaultfile/internal/model"
)

// reconcileTombstones implements spec §4.7 step 4: union the two
// databases' deleted-object lists, then delete any live object whose
// last-modification time precedes its tombstone's deletion time.
func reconcileTombstones(local, source *model.Database) {
	latest := map[model.UUID]model.Timestamp{}
	for _, d := range local.Deleted {
		latest[d.UUID] = d.DeletionTime
	}
	for _, d := range source.Deleted {
		if existing, ok := latest[d.UUID]; !ok || d.DeletionTime.After(existing) {
			latest[d.UUID] = d.DeletionTime
		}
	}

	ids := make([]model.UUID, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })

	local.Deleted = local.Deleted[:0]
	for _, id := range ids {
		local.Deleted = append(local.Deleted, model.DeletedObject{UUID: id, DeletionTime: latest[id]})
	}

	for _, id := range ids {
		delTime := latest[id]
		if g := local.FindGroupByUUID(id); g != nil && g.Times.LastModificationTime.Before(delTime) {
			if p := g.Parent(); p != nil {
				p.RemoveGroup(g)
			}
		}
		if e := local.FindEntryByUUID(id); e != nil && e.Times.LastModificationTime.Before(delTime) {
			if p := e.Parent(); p != nil {
				p.RemoveEntry(e)
			}
		}
	}
}
