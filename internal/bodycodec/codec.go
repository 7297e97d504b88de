package bodycodec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"github.com/vaultfile/vaultfile/internal/innerstream"
	"github.com/vaultfile/vaultfile/internal/model"
	"github.com/vaultfile/vaultfile/internal/vaulterr"
)

// Encode writes db's structured body document to w, masking every
// protected string value through masker in document order (spec §4.5,
// §4.6). The Root group and its descendants are encoded first into a
// scratch buffer so the entry-attachment binary pool is fully populated by
// the time Meta's <Binaries> section is written; Meta carries no protected
// values itself, so this reordering doesn't disturb the masker's
// single-consumer document-order contract.
func Encode(w io.Writer, db *model.Database, masker *innerstream.Masker) error {
	pool := &BinaryPool{}

	var rootBuf bytes.Buffer
	rootEnc := xml.NewEncoder(&rootBuf)
	if err := encodeRootSection(rootEnc, db, masker, pool); err != nil {
		return vaulterr.Wrap(vaulterr.KindMalformedBody, "encoding body", err)
	}
	if err := rootEnc.Flush(); err != nil {
		return vaulterr.Wrap(vaulterr.KindMalformedBody, "encoding body", err)
	}

	enc := xml.NewEncoder(w)
	start := xml.StartElement{Name: nameKeePassFile}
	if err := enc.EncodeToken(start); err != nil {
		return vaulterr.Wrap(vaulterr.KindMalformedBody, "encoding body", err)
	}
	if err := encodeMeta(enc, db, pool); err != nil {
		return vaulterr.Wrap(vaulterr.KindMalformedBody, "encoding Meta", err)
	}
	if err := enc.Flush(); err != nil {
		return vaulterr.Wrap(vaulterr.KindMalformedBody, "encoding body", err)
	}
	if _, err := rootBuf.WriteTo(w); err != nil {
		return vaulterr.Wrap(vaulterr.KindMalformedBody, "encoding body", err)
	}

	if err := enc.EncodeToken(start.End()); err != nil {
		return vaulterr.Wrap(vaulterr.KindMalformedBody, "encoding body", err)
	}
	return enc.Flush()
}

func encodeRootSection(enc *xml.Encoder, db *model.Database, masker *innerstream.Masker, pool *BinaryPool) error {
	rootStart := xml.StartElement{Name: nameRoot}
	if err := enc.EncodeToken(rootStart); err != nil {
		return err
	}
	if db.Root != nil {
		if err := encodeGroup(enc, db.Root, masker, pool); err != nil {
			return err
		}
	}
	if err := encodeDeletedObjects(enc, db.Deleted); err != nil {
		return err
	}
	return enc.EncodeToken(rootStart.End())
}

func encodeDeletedObjects(enc *xml.Encoder, deleted []model.DeletedObject) error {
	start := xml.StartElement{Name: nameDeletedObjects}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, d := range deleted {
		doStart := xml.StartElement{Name: nameDeletedObject}
		if err := enc.EncodeToken(doStart); err != nil {
			return err
		}
		if err := writeText(enc, "UUID", d.UUID.Base64()); err != nil {
			return err
		}
		if err := writeText(enc, "DeletionTime", d.DeletionTime.ISO8601()); err != nil {
			return err
		}
		if err := enc.EncodeToken(doStart.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Decode reads a structured body document from r, unmasking every
// protected string value through masker in document order.
func Decode(r io.Reader, masker *innerstream.Masker) (*model.Database, error) {
	dec := xml.NewDecoder(r)
	db := model.New()
	db.Root = nil
	pool := &BinaryPool{}

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, vaulterr.Wrap(vaulterr.KindMalformedBody, "reading body", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch el.Name.Local {
		case "Meta":
			if err := decodeMeta(dec, el, db, pool); err != nil {
				return nil, err
			}
		case "Root":
			if err := decodeRootSection(dec, el, db, masker, pool); err != nil {
				return nil, err
			}
		}
	}

	if db.Root == nil {
		return nil, vaulterr.New(vaulterr.KindMalformedBody, "body document has no Root group")
	}
	if err := checkUUIDsUnique(db.Root); err != nil {
		return nil, err
	}
	return db, nil
}

func decodeRootSection(dec *xml.Decoder, start xml.StartElement, db *model.Database, masker *innerstream.Masker, pool *BinaryPool) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return vaulterr.Wrap(vaulterr.KindMalformedBody, "reading Root", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "Group":
				g, err := decodeGroup(dec, el, masker, pool, db.MemoryProtection.ProtectField)
				if err != nil {
					return err
				}
				db.Root = g
			case "DeletedObjects":
				deleted, err := decodeDeletedObjects(dec)
				if err != nil {
					return vaulterr.Wrap(vaulterr.KindMalformedBody, "reading DeletedObjects", err)
				}
				db.Deleted = deleted
			default:
				if _, err := captureRaw(dec, el); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// checkUUIDsUnique rejects a tree in which two live groups or entries share
// a UUID (spec §8: "for every entry e, e.uuid != 0 and is unique among live
// entries"). History snapshots are excluded: they intentionally carry their
// owning entry's UUID.
func checkUUIDsUnique(root *model.Group) error {
	seen := make(map[model.UUID]struct{})
	var dup error
	model.Walk(root, func(g *model.Group, e *model.Entry) model.WalkAction {
		id := g.UUID
		if e != nil {
			id = e.UUID
		}
		if _, ok := seen[id]; ok {
			dup = vaulterr.New(vaulterr.KindMalformedBody, "duplicate UUID "+id.Hex()+" in body document")
			return model.WalkStop
		}
		seen[id] = struct{}{}
		return model.WalkContinue
	})
	return dup
}

func decodeDeletedObjects(dec *xml.Decoder) ([]model.DeletedObject, error) {
	var deleted []model.DeletedObject
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local != "DeletedObject" {
				if _, err := captureRaw(dec, el); err != nil {
					return nil, err
				}
				continue
			}
			d, err := decodeDeletedObject(dec)
			if err != nil {
				return nil, err
			}
			deleted = append(deleted, d)
		case xml.EndElement:
			return deleted, nil
		}
	}
}

func decodeDeletedObject(dec *xml.Decoder) (model.DeletedObject, error) {
	var d model.DeletedObject
	for {
		tok, err := dec.Token()
		if err != nil {
			return d, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			text, err := readElementText(dec, el)
			if err != nil {
				return d, err
			}
			switch el.Name.Local {
			case "UUID":
				d.UUID, err = model.UUIDFromBase64(text)
				if err != nil {
					return d, err
				}
			case "DeletionTime":
				d.DeletionTime, err = parseTimestamp(text)
				if err != nil {
					return d, err
				}
			}
		case xml.EndElement:
			return d, nil
		}
	}
}
