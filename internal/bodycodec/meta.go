package bodycodec

import (
	"encoding/base64"
	"encoding/xml"

	"github.com/vaultfile/vaultfile/internal/model"
	"github.com/vaultfile/vaultfile/internal/vaulterr"
)

func encodeMeta(enc *xml.Encoder, db *model.Database, pool *BinaryPool) error {
	start := xml.StartElement{Name: nameMeta}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if err := writeText(enc, "DatabaseName", db.Name); err != nil {
		return err
	}
	if err := writeText(enc, "DatabaseDescription", db.Description); err != nil {
		return err
	}
	if err := writeText(enc, "DefaultUserName", db.DefaultUserName); err != nil {
		return err
	}
	if err := writeText(enc, "MaintenanceHistoryDays", uitoa(db.MaintenanceHistoryDays)); err != nil {
		return err
	}
	if err := writeBool(enc, "RecycleBinEnabled", db.RecycleBinEnabled); err != nil {
		return err
	}
	if db.RecycleBinUUID != nil {
		if err := writeText(enc, "RecycleBinUUID", db.RecycleBinUUID.Base64()); err != nil {
			return err
		}
	}

	mpStart := xml.StartElement{Name: xml.Name{Local: "MemoryProtection"}}
	if err := enc.EncodeToken(mpStart); err != nil {
		return err
	}
	mp := db.MemoryProtection
	if err := writeBool(enc, "ProtectTitle", mp.Title); err != nil {
		return err
	}
	if err := writeBool(enc, "ProtectUserName", mp.UserName); err != nil {
		return err
	}
	if err := writeBool(enc, "ProtectPassword", mp.Password); err != nil {
		return err
	}
	if err := writeBool(enc, "ProtectURL", mp.URL); err != nil {
		return err
	}
	if err := writeBool(enc, "ProtectNotes", mp.Notes); err != nil {
		return err
	}
	if err := enc.EncodeToken(mpStart.End()); err != nil {
		return err
	}

	iconsStart := xml.StartElement{Name: xml.Name{Local: "CustomIcons"}}
	if err := enc.EncodeToken(iconsStart); err != nil {
		return err
	}
	for _, icon := range db.CustomIcons {
		iconStart := xml.StartElement{Name: xml.Name{Local: "Icon"}}
		if err := enc.EncodeToken(iconStart); err != nil {
			return err
		}
		if err := writeText(enc, "UUID", icon.UUID.Base64()); err != nil {
			return err
		}
		if err := writeText(enc, "Data", base64.StdEncoding.EncodeToString(icon.PNG)); err != nil {
			return err
		}
		if err := enc.EncodeToken(iconStart.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(iconsStart.End()); err != nil {
		return err
	}

	// The binary pool is only fully populated once every entry has been
	// walked, so the caller encodes entries into a buffer first and Meta
	// second; see Encode's two-pass structure in codec.go.
	binsStart := xml.StartElement{Name: xml.Name{Local: "Binaries"}}
	if err := enc.EncodeToken(binsStart); err != nil {
		return err
	}
	for i, data := range pool.All() {
		binStart := xml.StartElement{
			Name: xml.Name{Local: "Binary"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "ID"}, Value: uitoa(uint32(i))}},
		}
		if err := enc.EncodeToken(binStart); err != nil {
			return err
		}
		if err := enc.EncodeToken(xml.CharData(base64.StdEncoding.EncodeToString(data))); err != nil {
			return err
		}
		if err := enc.EncodeToken(binStart.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(binsStart.End()); err != nil {
		return err
	}

	return enc.EncodeToken(start.End())
}

// decodeMeta consumes the <Meta> element already opened by start, filling
// db's Meta-level fields and pool with the Binaries section's pool entries
// so entry decoding (which happens after Meta in document order) can
// resolve <Binary Ref="i"> references.
func decodeMeta(dec *xml.Decoder, start xml.StartElement, db *model.Database, pool *BinaryPool) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return vaulterr.Wrap(vaulterr.KindMalformedBody, "reading Meta", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			if _, isEnd := tok.(xml.EndElement); isEnd {
				return nil
			}
			continue
		}
		switch el.Name.Local {
		case "DatabaseName":
			db.Name, err = readElementText(dec, el)
		case "DatabaseDescription":
			db.Description, err = readElementText(dec, el)
		case "DefaultUserName":
			db.DefaultUserName, err = readElementText(dec, el)
		case "MaintenanceHistoryDays":
			var text string
			text, err = readElementText(dec, el)
			if err == nil {
				db.MaintenanceHistoryDays = atoui32(text)
			}
		case "RecycleBinEnabled":
			var text string
			text, err = readElementText(dec, el)
			db.RecycleBinEnabled = parseBool(text)
		case "RecycleBinUUID":
			var text string
			text, err = readElementText(dec, el)
			if err == nil && text != "" {
				var id model.UUID
				id, err = model.UUIDFromBase64(text)
				db.RecycleBinUUID = &id
			}
		case "MemoryProtection":
			err = decodeMemoryProtection(dec, db)
		case "CustomIcons":
			err = decodeCustomIcons(dec, db)
		case "Binaries":
			err = decodeBinariesPool(dec, pool)
		default:
			_, err = captureRaw(dec, el)
		}
		if err != nil {
			return vaulterr.Wrap(vaulterr.KindMalformedBody, "parsing Meta field "+el.Name.Local, err)
		}
	}
}

func decodeMemoryProtection(dec *xml.Decoder, db *model.Database) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			text, err := readElementText(dec, el)
			if err != nil {
				return err
			}
			v := parseBool(text)
			switch el.Name.Local {
			case "ProtectTitle":
				db.MemoryProtection.Title = v
			case "ProtectUserName":
				db.MemoryProtection.UserName = v
			case "ProtectPassword":
				db.MemoryProtection.Password = v
			case "ProtectURL":
				db.MemoryProtection.URL = v
			case "ProtectNotes":
				db.MemoryProtection.Notes = v
			}
		case xml.EndElement:
			return nil
		}
	}
}

func decodeCustomIcons(dec *xml.Decoder, db *model.Database) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local != "Icon" {
				if _, err := captureRaw(dec, el); err != nil {
					return err
				}
				continue
			}
			icon, err := decodeIcon(dec)
			if err != nil {
				return err
			}
			db.CustomIcons = append(db.CustomIcons, icon)
		case xml.EndElement:
			return nil
		}
	}
}

func decodeIcon(dec *xml.Decoder) (model.CustomIcon, error) {
	var icon model.CustomIcon
	for {
		tok, err := dec.Token()
		if err != nil {
			return icon, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			text, err := readElementText(dec, el)
			if err != nil {
				return icon, err
			}
			switch el.Name.Local {
			case "UUID":
				icon.UUID, err = model.UUIDFromBase64(text)
				if err != nil {
					return icon, err
				}
			case "Data":
				icon.PNG, err = base64.StdEncoding.DecodeString(text)
				if err != nil {
					return icon, err
				}
			}
		case xml.EndElement:
			return icon, nil
		}
	}
}

func decodeBinariesPool(dec *xml.Decoder, pool *BinaryPool) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local != "Binary" {
				if _, err := captureRaw(dec, el); err != nil {
					return err
				}
				continue
			}
			text, err := readElementText(dec, el)
			if err != nil {
				return err
			}
			data, err := base64.StdEncoding.DecodeString(text)
			if err != nil {
				return err
			}
			pool.Append(data)
		case xml.EndElement:
			return nil
		}
	}
}
