package iolocation

import (
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/vaultfile/vaultfile/internal/vaulterr"
)

// Lock is an advisory side-file recording who currently has a vault open
// (spec §6, "Persisted side-files": "a lock file ... containing a
// machine+user identifier; advisory only, never required for correctness").
// It does not prevent concurrent access; callers that care about
// coordination are expected to check TryAcquire's return value themselves.
type Lock struct {
	loc Location
}

// NewLock returns the lock side-file for the vault at loc, named
// "<name>.lock" alongside it.
func NewLock(loc Location) Lock {
	return Lock{loc: Location{fs: loc.fs, path: loc.path + ".lock"}}
}

// TryAcquire reports whether the lock file was absent and could be created
// (identity is written, but the result is informational rather than
// enforced). If a lock file already exists, owner holds its current
// contents and ok is false; callers may still proceed, override, or abort.
func (l Lock) TryAcquire() (ok bool, owner string, err error) {
	exists, err := l.loc.Exists()
	if err != nil {
		return false, "", err
	}
	if exists {
		owner, err = l.readOwner()
		return false, owner, err
	}

	identity, err := currentIdentity()
	if err != nil {
		return false, "", err
	}
	f, err := l.loc.fs.Create(l.loc.path)
	if err != nil {
		return false, "", vaulterr.Wrap(vaulterr.KindIOFailure, "creating lock file", err)
	}
	defer f.Close()
	if _, err := f.WriteString(identity); err != nil {
		return false, "", vaulterr.Wrap(vaulterr.KindIOFailure, "writing lock file", err)
	}
	return true, identity, nil
}

// Release removes the lock file. Releasing a lock this process never
// acquired is not an error; the file simply may not exist.
func (l Lock) Release() error {
	exists, err := l.loc.Exists()
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return l.loc.Delete()
}

func (l Lock) readOwner() (string, error) {
	f, err := l.loc.OpenRead()
	if err != nil {
		return "", err
	}
	defer f.Close()
	buf := make([]byte, 256)
	n, _ := f.Read(buf)
	return string(buf[:n]), nil
}

func currentIdentity() (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", vaulterr.Wrap(vaulterr.KindIOFailure, "resolving hostname", err)
	}
	u, err := user.Current()
	if err != nil {
		return "", vaulterr.Wrap(vaulterr.KindIOFailure, "resolving current user", err)
	}
	return strings.TrimSpace(fmt.Sprintf("%s@%s pid=%d", u.Username, host, os.Getpid())), nil
}
