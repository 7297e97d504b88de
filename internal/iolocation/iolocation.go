// Package iolocation implements the IoLocation abstraction of spec §6: an
// injected adapter over a path with open_read/rename/delete/exists
// operations, so the core library never touches the filesystem (or a
// network-backed scheme) directly. Location has no open-for-write method;
// writing goes only through SaveAtomic's temporary-file-and-rename path. The default adapter is backed by
// github.com/spf13/afero, which also lets tests exercise the full save/open
// path against an in-memory filesystem instead of real disk.
package iolocation

import (
	"io"

	"github.com/spf13/afero"

	"github.com/vaultfile/vaultfile/internal/vaulterr"
)

// Location is a single addressable file within an afero.Fs. The zero value
// is not usable; construct with New or NewWithFs.
type Location struct {
	fs   afero.Fs
	path string
}

// New returns a Location backed by the real local filesystem.
func New(path string) Location {
	return Location{fs: afero.NewOsFs(), path: path}
}

// NewWithFs returns a Location backed by an arbitrary afero.Fs, letting
// callers (tests, or a future non-local IoLocation scheme) supply their own
// backing store.
func NewWithFs(fs afero.Fs, path string) Location {
	return Location{fs: fs, path: path}
}

// Path returns the location's path.
func (l Location) Path() string { return l.path }

// OpenRead opens the location for reading (spec §6, "open_read").
func (l Location) OpenRead() (afero.File, error) {
	f, err := l.fs.Open(l.path)
	if err != nil {
		return nil, vaulterr.Wrap(vaulterr.KindIOFailure, "opening "+l.path+" for read", err)
	}
	return f, nil
}

// Exists reports whether the location currently exists (spec §6, "exists").
func (l Location) Exists() (bool, error) {
	ok, err := afero.Exists(l.fs, l.path)
	if err != nil {
		return false, vaulterr.Wrap(vaulterr.KindIOFailure, "checking existence of "+l.path, err)
	}
	return ok, nil
}

// Delete removes the location if present (spec §6, "delete").
func (l Location) Delete() error {
	if err := l.fs.Remove(l.path); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "deleting "+l.path, err)
	}
	return nil
}

// Rename moves the location to newPath (spec §6, "rename").
func (l Location) Rename(newPath string) error {
	if err := l.fs.Rename(l.path, newPath); err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "renaming "+l.path+" to "+newPath, err)
	}
	return nil
}

// SaveAtomic writes the bytes produced by write to a sibling temporary file,
// syncs it, and renames it over l's path, so a crash or failed write never
// leaves a partial or corrupt primary file (spec §5: "save is atomic at the
// file level ... no partial file is left on failure; the prior file remains
// intact").
func SaveAtomic(l Location, write func(w io.Writer) error) error {
	tmpPath := l.path + ".tmp"
	tmp, err := l.fs.Create(tmpPath)
	if err != nil {
		return vaulterr.Wrap(vaulterr.KindIOFailure, "creating temporary file", err)
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		l.fs.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		l.fs.Remove(tmpPath)
		return vaulterr.Wrap(vaulterr.KindIOFailure, "syncing temporary file", err)
	}
	if err := tmp.Close(); err != nil {
		l.fs.Remove(tmpPath)
		return vaulterr.Wrap(vaulterr.KindIOFailure, "closing temporary file", err)
	}

	if err := l.fs.Rename(tmpPath, l.path); err != nil {
		l.fs.Remove(tmpPath)
		return vaulterr.Wrap(vaulterr.KindIOFailure, "renaming temporary file into place", err)
	}
	return nil
}
