// Package compositekey assembles the user's key material (passphrase,
// key-file, OS-account token) into the final AES-256 cipher key, per spec
// §4.1: concatenate each source's 32-byte hash, hash the concatenation,
// then strengthen it by R rounds of AES-256 self-encryption under the
// file's transform seed before mixing in the file's master seed.
package compositekey

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/xml"
	"os"
	"os/user"

	"github.com/vaultfile/vaultfile/internal/vaulterr"
	"github.com/vaultfile/vaultfile/internal/vcrypto"
)

// Source contributes 32 bytes toward the composite key's raw material.
type Source interface {
	hash() ([32]byte, error)
}

// Passphrase is a UTF-8 user passphrase, hashed directly with SHA-256.
type Passphrase string

func (p Passphrase) hash() ([32]byte, error) {
	return vcrypto.Sum256([]byte(p)), nil
}

// KeyFile is the raw byte content of a key-file source. Per spec §4.1 it is
// interpreted, in order, as: 32 raw bytes, 64 hex characters, an XML
// key-file document with a base64 32-byte Data element, or else the
// SHA-256 of the whole file.
type KeyFile []byte

type keyFileXML struct {
	XMLName xml.Name `xml:"KeyFile"`
	Key     struct {
		Data string `xml:"Data"`
	} `xml:"Key"`
}

func (k KeyFile) hash() ([32]byte, error) {
	if len(k) == 32 {
		var out [32]byte
		copy(out[:], k)
		return out, nil
	}
	if len(k) == 64 {
		if decoded, err := hex.DecodeString(string(k)); err == nil && len(decoded) == 32 {
			var out [32]byte
			copy(out[:], decoded)
			return out, nil
		}
	}
	var doc keyFileXML
	if err := xml.Unmarshal(k, &doc); err == nil && doc.Key.Data != "" {
		if decoded, err := base64.StdEncoding.DecodeString(doc.Key.Data); err == nil && len(decoded) == 32 {
			var out [32]byte
			copy(out[:], decoded)
			return out, nil
		}
	}
	return vcrypto.Sum256(k), nil
}

// LoadKeyFile reads a key-file from disk.
func LoadKeyFile(path string) (KeyFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, vaulterr.Wrap(vaulterr.KindIOFailure, "reading key file", err)
	}
	return KeyFile(b), nil
}

// OSAccountToken hashes a platform-stable user identifier concatenated with
// a machine identifier (spec §4.1, source 3).
type OSAccountToken struct {
	UserID    string
	MachineID string
}

func (o OSAccountToken) hash() ([32]byte, error) {
	return vcrypto.Sum256([]byte(o.UserID), []byte(o.MachineID)), nil
}

// CurrentOSAccountToken builds an OSAccountToken from the running process's
// OS user and hostname. Returned as a Source so callers can opt in to
// binding the composite key to the current machine/account.
func CurrentOSAccountToken() (OSAccountToken, error) {
	u, err := user.Current()
	if err != nil {
		return OSAccountToken{}, vaulterr.Wrap(vaulterr.KindIOFailure, "resolving OS user", err)
	}
	host, err := os.Hostname()
	if err != nil {
		return OSAccountToken{}, vaulterr.Wrap(vaulterr.KindIOFailure, "resolving hostname", err)
	}
	return OSAccountToken{UserID: u.Uid + ":" + u.Username, MachineID: host}, nil
}
