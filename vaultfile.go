// Package vaultfile is the public API of an encrypted, hierarchical
// secret-storage engine: composite-key derivation, an authenticated AES
// envelope, block-hashed inner-stream framing, and a structured tree body,
// wrapping the internal codec/model/merge packages behind a single entry
// point (spec §2, "System overview").
package vaultfile

import (
	"io"

	"github.com/vaultfile/vaultfile/internal/compositekey"
	"github.com/vaultfile/vaultfile/internal/filecodec"
	"github.com/vaultfile/vaultfile/internal/iolocation"
	"github.com/vaultfile/vaultfile/internal/merge"
	"github.com/vaultfile/vaultfile/internal/model"
	"github.com/vaultfile/vaultfile/internal/statuscb"
)

// Database is the full in-memory entity tree plus file-level settings, re-
// exported from the internal model package so callers never need to import
// an internal path directly.
type Database = model.Database

// Group, Entry and the other entity types are likewise re-exported so the
// whole public surface is reachable through this one package.
type (
	Group         = model.Group
	Entry         = model.Entry
	UUID          = model.UUID
	Timestamp     = model.Timestamp
	Times         = model.Times
	TriState      = model.TriState
	DeletedObject = model.DeletedObject
	CustomIcon    = model.CustomIcon
	Compression   = model.Compression
	WalkAction    = model.WalkAction
	Visitor       = model.Visitor
	FieldMask     = model.FieldMask
	SearchOptions = model.SearchOptions
)

const (
	WalkContinue = model.WalkContinue
	WalkStop     = model.WalkStop

	CompressionNone = model.CompressionNone
	CompressionGZip = model.CompressionGZip

	FieldTitles    = model.FieldTitles
	FieldUserNames = model.FieldUserNames
	FieldURLs      = model.FieldURLs
	FieldPasswords = model.FieldPasswords
	FieldNotes     = model.FieldNotesMask
	FieldOther     = model.FieldOther
	FieldUUIDs     = model.FieldUUIDs
	FieldTags      = model.FieldTagsMask
	FieldAll       = model.FieldAll
)

// Standard entry string-field names (spec §3). FieldNotes, the remaining
// standard field name, is not re-exported here: it would collide with the
// FieldNotes search-mask constant above, so search.go's own FieldNotesMask
// name is used for that bit and "Notes" is spelled as a literal where a
// caller needs the field name itself.
const (
	FieldTitle    = model.FieldTitle
	FieldUserName = model.FieldUserName
	FieldPassword = model.FieldPassword
	FieldURL      = model.FieldURL
)

// KeySource contributes key material toward unlocking or saving a database:
// a passphrase, a key-file, or the current OS account token (spec §4.1).
type KeySource = compositekey.Source

// Passphrase, KeyFile and OSAccountToken are the three KeySource kinds
// (spec §4.1).
type (
	Passphrase     = compositekey.Passphrase
	KeyFile        = compositekey.KeyFile
	OSAccountToken = compositekey.OSAccountToken
)

// LoadKeyFile reads a key-file source from disk.
func LoadKeyFile(path string) (KeyFile, error) { return compositekey.LoadKeyFile(path) }

// CurrentOSAccountToken builds an OSAccountToken from the running
// process's OS user and hostname.
func CurrentOSAccountToken() (OSAccountToken, error) { return compositekey.CurrentOSAccountToken() }

// StatusCallback reports composite-key strengthening progress and allows
// cancellation (spec §5/§6).
type StatusCallback = statuscb.Callback

// Signal is the caller's verdict after observing a progress report.
type Signal = statuscb.Signal

const (
	Continue = statuscb.Continue
	Cancel   = statuscb.Cancel
)

// New returns a fresh, empty database.
func New() *Database { return model.New() }

// OpenFile unlocks the vault at path using sources and returns its decoded
// database. cb may be nil.
func OpenFile(path string, sources []KeySource, cb StatusCallback) (*Database, error) {
	loc := iolocation.New(path)
	f, err := loc.OpenRead()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	db, err := filecodec.Open(f, sources, cb)
	if err != nil {
		return nil, err
	}
	db.Source = path
	return db, nil
}

// SaveFile persists db to its own Source path (the path it was opened
// from, or last saved to); use SaveFileAs for a database with no Source
// yet.
func SaveFile(db *Database, sources []KeySource, cb StatusCallback) error {
	if db.Source == "" {
		return NewError(ErrInvalidKey.Kind, "database has no Source path; use SaveFileAs")
	}
	return SaveFileAs(db, db.Source, sources, cb)
}

// SaveFileAs persists db to path atomically (spec §5, "Ordering
// guarantees": write to a sibling temp file, sync, rename over the
// destination, so a crash never leaves a partial file and the prior file
// remains intact on failure), then updates db.Source and clears Modified
// (spec §6, save_as with make_primary=true).
func SaveFileAs(db *Database, path string, sources []KeySource, cb StatusCallback) error {
	if err := SaveFileAsCopy(db, path, sources, cb); err != nil {
		return err
	}
	db.Source = path
	return nil
}

// SaveFileAsCopy persists db to path atomically without changing db.Source
// (spec §6, save_as with make_primary=false) — for writing an export copy
// alongside the database the caller keeps editing. Like SaveFileAs, a
// successful write clears db.Modified.
func SaveFileAsCopy(db *Database, path string, sources []KeySource, cb StatusCallback) error {
	loc := iolocation.New(path)
	return iolocation.SaveAtomic(loc, func(w io.Writer) error {
		return filecodec.Save(w, db, sources, cb)
	})
}

// MergePolicy selects merge conflict-resolution behavior (spec §4.7).
type MergePolicy int

const (
	OverwriteExisting = MergePolicy(merge.OverwriteExisting)
	OverwriteIfNewer  = MergePolicy(merge.OverwriteIfNewer)
	KeepExisting      = MergePolicy(merge.KeepExisting)
	CreateNewUuids    = MergePolicy(merge.CreateNewUuids)
	Synchronize       = MergePolicy(merge.Synchronize)
)

// MergeIn reconciles source into local under policy (spec §4.7).
func MergeIn(local, source *Database, policy MergePolicy) error {
	return merge.MergeIn(local, source, merge.Policy(policy))
}

// Walk performs a pre-order traversal of root and its descendants (spec
// §6).
func Walk(root *Group, visit Visitor) WalkAction { return model.Walk(root, visit) }

// Search returns every live entry under root whose selected fields match
// query (spec §6).
func Search(root *Group, query string, opts SearchOptions) ([]*Entry, error) {
	return model.Search(root, query, opts)
}

// FindByUUID looks up a single entry or group anywhere under root by UUID.
func FindByUUID(root *Group, id UUID) (group *Group, entry *Entry) {
	return model.FindByUUID(root, id)
}

// Lock is the advisory per-vault lock side-file (spec §6, "Persisted
// side-files").
type Lock = iolocation.Lock

// AcquireLock returns the advisory lock for the vault at path without
// blocking; see Lock.TryAcquire for the contended case.
func AcquireLock(path string) Lock {
	return iolocation.NewLock(iolocation.New(path))
}
