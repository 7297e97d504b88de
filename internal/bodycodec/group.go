package bodycodec

import (
	"encoding/xml"

	"github.com/vaultfile/vaultfile/internal/innerstream"
	"github.com/vaultfile/vaultfile/internal/model"
	"github.com/vaultfile/vaultfile/internal/vaulterr"
)

func encodeGroup(enc *xml.Encoder, g *model.Group, masker *innerstream.Masker, pool *BinaryPool) error {
	start := xml.StartElement{Name: nameGroup}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeText(enc, "UUID", g.UUID.Base64()); err != nil {
		return err
	}
	if err := writeText(enc, "Name", g.Name); err != nil {
		return err
	}
	if err := writeText(enc, "Notes", g.Notes); err != nil {
		return err
	}
	if err := writeText(enc, "IconID", uitoa(g.IconID)); err != nil {
		return err
	}
	if g.CustomIconUUID != nil {
		if err := writeText(enc, "CustomIconUUID", g.CustomIconUUID.Base64()); err != nil {
			return err
		}
	}
	if err := encodeTimes(enc, g.Times); err != nil {
		return err
	}
	if err := writeBool(enc, "IsExpanded", g.Expanded); err != nil {
		return err
	}
	if g.DefaultAutoTypeSequence != nil {
		if err := writeText(enc, "DefaultAutoTypeSequence", *g.DefaultAutoTypeSequence); err != nil {
			return err
		}
	}
	if err := writeText(enc, "EnableAutoType", triStateText(g.EnableAutoType)); err != nil {
		return err
	}
	if err := writeText(enc, "EnableSearching", triStateText(g.EnableSearching)); err != nil {
		return err
	}
	if g.LastTopVisibleEntry != nil {
		if err := writeText(enc, "LastTopVisibleEntry", g.LastTopVisibleEntry.Base64()); err != nil {
			return err
		}
	}

	for _, sub := range g.Groups {
		if err := encodeGroup(enc, sub, masker, pool); err != nil {
			return err
		}
	}
	for _, e := range g.Entries {
		if err := encodeEntry(enc, e, masker, pool); err != nil {
			return err
		}
	}

	for _, raw := range g.UnknownElements {
		if err := emitRaw(enc, raw.InnerXML); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func triStateText(t model.TriState) string {
	switch t {
	case model.Enabled:
		return "True"
	case model.Disabled:
		return "False"
	default:
		return "null"
	}
}

func parseTriState(s string) model.TriState {
	switch s {
	case "True", "true", "1":
		return model.Enabled
	case "False", "false", "0":
		return model.Disabled
	default:
		return model.Inherit
	}
}

// decodeGroup consumes the <Group> element already opened by start.
// protect resolves the current MemoryProtection config for any entry found
// under this group.
func decodeGroup(dec *xml.Decoder, start xml.StartElement, masker *innerstream.Masker, pool *BinaryPool, protect func(string) bool) (*model.Group, error) {
	g := &model.Group{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, vaulterr.Wrap(vaulterr.KindMalformedBody, "reading Group", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			if _, isEnd := tok.(xml.EndElement); isEnd {
				return g, nil
			}
			continue
		}
		if err := decodeGroupField(dec, el, g, masker, pool, protect); err != nil {
			return nil, vaulterr.Wrap(vaulterr.KindMalformedBody, "parsing Group field "+el.Name.Local, err)
		}
	}
}

func decodeGroupField(dec *xml.Decoder, el xml.StartElement, g *model.Group, masker *innerstream.Masker, pool *BinaryPool, protect func(string) bool) error {
	switch el.Name.Local {
	case "UUID":
		text, err := readElementText(dec, el)
		if err != nil {
			return err
		}
		g.UUID, err = model.UUIDFromBase64(text)
		if err != nil {
			return err
		}
		if g.UUID.IsZero() {
			return vaulterr.New(vaulterr.KindMalformedBody, "Group UUID is all-zero")
		}
		return nil
	case "Name":
		var err error
		g.Name, err = readElementText(dec, el)
		return err
	case "Notes":
		var err error
		g.Notes, err = readElementText(dec, el)
		return err
	case "IconID":
		text, err := readElementText(dec, el)
		if err != nil {
			return err
		}
		g.IconID = atoui32(text)
		return nil
	case "CustomIconUUID":
		text, err := readElementText(dec, el)
		if err != nil {
			return err
		}
		if text != "" {
			id, err := model.UUIDFromBase64(text)
			if err != nil {
				return err
			}
			g.CustomIconUUID = &id
		}
		return nil
	case "Times":
		times, err := decodeTimes(dec, el)
		if err != nil {
			return err
		}
		g.Times = times
		return nil
	case "IsExpanded":
		text, err := readElementText(dec, el)
		if err != nil {
			return err
		}
		g.Expanded = parseBool(text)
		return nil
	case "DefaultAutoTypeSequence":
		return readOptionalText(dec, el, &g.DefaultAutoTypeSequence)
	case "EnableAutoType":
		text, err := readElementText(dec, el)
		if err != nil {
			return err
		}
		g.EnableAutoType = parseTriState(text)
		return nil
	case "EnableSearching":
		text, err := readElementText(dec, el)
		if err != nil {
			return err
		}
		g.EnableSearching = parseTriState(text)
		return nil
	case "LastTopVisibleEntry":
		text, err := readElementText(dec, el)
		if err != nil {
			return err
		}
		if text != "" {
			id, err := model.UUIDFromBase64(text)
			if err != nil {
				return err
			}
			g.LastTopVisibleEntry = &id
		}
		return nil
	case "Group":
		sub, err := decodeGroup(dec, el, masker, pool, protect)
		if err != nil {
			return err
		}
		return g.AttachGroup(sub)
	case "Entry":
		e, err := decodeEntry(dec, el, masker, pool, protect)
		if err != nil {
			return err
		}
		return g.AttachEntry(e)
	default:
		raw, err := captureRaw(dec, el)
		if err != nil {
			return err
		}
		g.UnknownElements = append(g.UnknownElements, model.RawElement{Name: el.Name.Local, InnerXML: raw})
		return nil
	}
}
