package model

// Compression identifies the inner-stream payload compression (spec §4.2,
// CompressionFlags).
type Compression uint32

const (
	CompressionNone Compression = 0
	CompressionGZip Compression = 1
)

// AESCipherUUID is the fixed CipherUUID value identifying AES-256 (spec
// §4.2).
var AESCipherUUID = UUID{
	0x31, 0xC1, 0xF2, 0xE6, 0xBF, 0x71, 0x43, 0x50,
	0xBE, 0x58, 0x05, 0x21, 0x6A, 0xFC, 0x5A, 0xFF,
}

// InnerStreamID identifies the inner-stream masking algorithm (spec §4.2,
// InnerRandomStreamID).
type InnerStreamID uint32

const (
	InnerStreamNone InnerStreamID = 0
	innerStreamReserved InnerStreamID = 1
	InnerStreamARX20 InnerStreamID = 2
)

// CustomIcon is a named PNG image referenced by Entry/Group
// CustomIconUUID fields (spec §3 Database.custom_icons).
type CustomIcon struct {
	UUID UUID
	PNG  []byte
}

// Database is the full in-memory entity tree plus the file-level settings
// needed to re-save it (spec §3).
type Database struct {
	Root    *Group
	Deleted []DeletedObject

	DataCipher         UUID
	Compression        Compression
	KeyTransformRounds uint64

	MemoryProtection MemoryProtectionConfig

	Name                    string
	Description             string
	DefaultUserName         string
	MaintenanceHistoryDays  uint32
	CustomIcons             []CustomIcon

	// RecycleBinEnabled/RecycleBinUUID mirror the Meta-level recycle-bin
	// settings the body codec persists (SPEC_FULL §4.6); the merge engine
	// and CLI treat the recycle bin as an ordinary group.
	RecycleBinEnabled bool
	RecycleBinUUID    *UUID

	Source   string
	Modified bool
	Open     bool
}

// New returns a fresh, empty database: one root group, AES cipher, gzip
// compression, 6000 transform rounds (a reasonable default calibrated for
// sub-second unlock latency on typical hardware), and the default
// memory-protection config.
func New() *Database {
	return &Database{
		Root:                   NewRoot(),
		DataCipher:             AESCipherUUID,
		Compression:            CompressionGZip,
		KeyTransformRounds:     6000,
		MemoryProtection:       DefaultMemoryProtectionConfig(),
		MaintenanceHistoryDays: 365,
		Open:                   true,
		Modified:               true,
	}
}

// NewEntryIn creates a new entry under parent using the database's
// memory-protection config, adds it, and marks the database modified.
func (db *Database) NewEntryIn(parent *Group) *Entry {
	e := NewEntry(db.MemoryProtection.ProtectField)
	if err := parent.AddEntry(e); err != nil {
		// NewEntry always hands back a fresh, non-zero, globally unique
		// UUID, so AddEntry rejecting it means the tree is already
		// corrupt, not a caller mistake.
		panic("model: " + err.Error())
	}
	db.Modified = true
	return e
}

// NewGroupIn creates a new named group under parent, adds it, and marks
// the database modified.
func (db *Database) NewGroupIn(parent *Group, name string) *Group {
	g := NewGroup(name)
	if err := parent.AddGroup(g); err != nil {
		panic("model: " + err.Error())
	}
	db.Modified = true
	return g
}

// DeleteEntry removes e from its parent and records a tombstone with the
// current time (spec §3 "Lifecycle").
func (db *Database) DeleteEntry(e *Entry) {
	if e.parent != nil {
		e.parent.RemoveEntry(e)
	}
	db.Deleted = append(db.Deleted, DeletedObject{UUID: e.UUID, DeletionTime: Now()})
	db.Modified = true
}

// DeleteGroup removes g (and implicitly its descendants) from its parent
// and records a tombstone for g itself.
func (db *Database) DeleteGroup(g *Group) {
	if g.parent != nil {
		g.parent.RemoveGroup(g)
	}
	db.Deleted = append(db.Deleted, DeletedObject{UUID: g.UUID, DeletionTime: Now()})
	db.Modified = true
}

// FindGroupByUUID searches the whole tree.
func (db *Database) FindGroupByUUID(id UUID) *Group {
	if db.Root == nil {
		return nil
	}
	return db.Root.FindGroupByUUID(id)
}

// FindEntryByUUID searches the whole tree.
func (db *Database) FindEntryByUUID(id UUID) *Entry {
	if db.Root == nil {
		return nil
	}
	return db.Root.FindEntryByUUID(id)
}

// CustomIconByUUID looks up a custom icon by UUID.
func (db *Database) CustomIconByUUID(id UUID) (CustomIcon, bool) {
	for _, ic := range db.CustomIcons {
		if ic.UUID.Equal(id) {
			return ic, true
		}
	}
	return CustomIcon{}, false
}

// AddCustomIcon appends a custom icon under a freshly generated UUID and
// returns that UUID. Identical data already in CustomIcons is not reused.
func (db *Database) AddCustomIcon(png []byte) UUID {
	id := NewUUID()
	db.CustomIcons = append(db.CustomIcons, CustomIcon{UUID: id, PNG: png})
	db.Modified = true
	return id
}

// TrimHistory applies MaintenanceHistoryDays and maxItems across every live
// entry in the tree (spec §3: "trimmed by count and by age-in-days at save
// time").
func (db *Database) TrimHistory(maxItems int) {
	now := Now()
	Walk(db.Root, func(g *Group, e *Entry) WalkAction {
		if e != nil {
			e.TrimHistory(maxItems, db.MaintenanceHistoryDays, now)
		}
		return WalkContinue
	})
}
