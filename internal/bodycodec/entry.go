package bodycodec

import (
	"encoding/xml"

	"github.com/vaultfile/vaultfile/internal/innerstream"
	"github.com/vaultfile/vaultfile/internal/model"
	"github.com/vaultfile/vaultfile/internal/protectedstring"
	"github.com/vaultfile/vaultfile/internal/vaulterr"
)

func encodeEntry(enc *xml.Encoder, e *model.Entry, masker *innerstream.Masker, pool *BinaryPool) error {
	start := xml.StartElement{Name: nameEntry}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := encodeEntryBody(enc, e, masker, pool); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func encodeEntryBody(enc *xml.Encoder, e *model.Entry, masker *innerstream.Masker, pool *BinaryPool) error {
	if err := writeText(enc, "UUID", e.UUID.Base64()); err != nil {
		return err
	}
	if err := writeText(enc, "IconID", uitoa(e.IconID)); err != nil {
		return err
	}
	if e.CustomIconUUID != nil {
		if err := writeText(enc, "CustomIconUUID", e.CustomIconUUID.Base64()); err != nil {
			return err
		}
	}
	if err := writeOptionalText(enc, "ForegroundColor", e.ForegroundColor); err != nil {
		return err
	}
	if err := writeOptionalText(enc, "BackgroundColor", e.BackgroundColor); err != nil {
		return err
	}
	if err := writeOptionalText(enc, "OverrideURL", e.OverrideURL); err != nil {
		return err
	}
	tags := ""
	for i, t := range e.Tags {
		if i > 0 {
			tags += ";"
		}
		tags += t
	}
	if err := writeText(enc, "Tags", tags); err != nil {
		return err
	}
	if err := encodeTimes(enc, e.Times); err != nil {
		return err
	}

	for _, f := range e.Strings.Fields() {
		if err := encodeStringField(enc, f, masker); err != nil {
			return err
		}
	}
	for _, a := range e.Binaries.Attachments() {
		if err := encodeEntryBinary(enc, a, pool); err != nil {
			return err
		}
	}
	if err := encodeAutoType(enc, e.AutoType); err != nil {
		return err
	}

	if len(e.History) > 0 {
		histStart := xml.StartElement{Name: nameHistory}
		if err := enc.EncodeToken(histStart); err != nil {
			return err
		}
		for _, h := range e.History {
			if err := encodeEntry(enc, h, masker, pool); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(histStart.End()); err != nil {
			return err
		}
	}

	for _, raw := range e.UnknownElements {
		if err := emitRaw(enc, raw.InnerXML); err != nil {
			return err
		}
	}
	return nil
}

func writeOptionalText(enc *xml.Encoder, name string, v *string) error {
	if v == nil {
		return nil
	}
	return writeText(enc, name, *v)
}

func encodeStringField(enc *xml.Encoder, f model.StringField, masker *innerstream.Masker) error {
	start := xml.StartElement{Name: nameString}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeText(enc, "Key", f.Key); err != nil {
		return err
	}

	valueAttrs := []xml.Attr(nil)
	if f.Value.Protected() {
		valueAttrs = []xml.Attr{{Name: xml.Name{Local: "Protected"}, Value: "True"}}
	}
	valueStart := xml.StartElement{Name: xml.Name{Local: "Value"}, Attr: valueAttrs}
	if err := enc.EncodeToken(valueStart); err != nil {
		return err
	}
	plain := f.Value.Read()
	var text string
	if f.Value.Protected() {
		text = masker.MaskForWrite(plain)
	} else {
		text = string(plain)
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(valueStart.End()); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func encodeEntryBinary(enc *xml.Encoder, a model.BinaryAttachment, pool *BinaryPool) error {
	start := xml.StartElement{Name: nameBinary}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeText(enc, "Key", a.Key); err != nil {
		return err
	}
	ref := pool.AddOrGet(a.Data)
	refStart := xml.StartElement{
		Name: xml.Name{Local: "Value"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "Ref"}, Value: uitoa(uint32(ref))}},
	}
	if err := enc.EncodeToken(refStart); err != nil {
		return err
	}
	if err := enc.EncodeToken(refStart.End()); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func encodeAutoType(enc *xml.Encoder, at model.AutoType) error {
	start := xml.StartElement{Name: nameAutoType}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeBool(enc, "Enabled", at.Enabled); err != nil {
		return err
	}
	if err := writeText(enc, "DataTransferObfuscation", uitoa(uint32(at.ObfuscationLevel))); err != nil {
		return err
	}
	if at.DefaultSequence != nil {
		if err := writeText(enc, "DefaultSequence", *at.DefaultSequence); err != nil {
			return err
		}
	}
	for _, assoc := range at.Associations {
		assocStart := xml.StartElement{Name: nameAssociation}
		if err := enc.EncodeToken(assocStart); err != nil {
			return err
		}
		if err := writeText(enc, "Window", assoc.WindowPattern); err != nil {
			return err
		}
		if err := writeText(enc, "KeystrokeSequence", assoc.Sequence); err != nil {
			return err
		}
		if err := enc.EncodeToken(assocStart.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// decodeEntry consumes the <Entry> element already opened by start. protect
// resolves the current MemoryProtection config, used both to decode
// Protected="True" string values and, once the element is fully read, to
// fill in any standard field (spec §3) the document left out.
func decodeEntry(dec *xml.Decoder, start xml.StartElement, masker *innerstream.Masker, pool *BinaryPool, protect func(string) bool) (*model.Entry, error) {
	e := &model.Entry{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, vaulterr.Wrap(vaulterr.KindMalformedBody, "reading Entry", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			if _, isEnd := tok.(xml.EndElement); isEnd {
				e.Strings.EnsureStandardFields(protect)
				return e, nil
			}
			continue
		}
		if err := decodeEntryField(dec, el, e, masker, pool, protect); err != nil {
			return nil, vaulterr.Wrap(vaulterr.KindMalformedBody, "parsing Entry field "+el.Name.Local, err)
		}
	}
}

func decodeEntryField(dec *xml.Decoder, el xml.StartElement, e *model.Entry, masker *innerstream.Masker, pool *BinaryPool, protect func(string) bool) error {
	switch el.Name.Local {
	case "UUID":
		text, err := readElementText(dec, el)
		if err != nil {
			return err
		}
		e.UUID, err = model.UUIDFromBase64(text)
		if err != nil {
			return err
		}
		if e.UUID.IsZero() {
			return vaulterr.New(vaulterr.KindMalformedBody, "Entry UUID is all-zero")
		}
		return nil
	case "IconID":
		text, err := readElementText(dec, el)
		if err != nil {
			return err
		}
		e.IconID = atoui32(text)
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
			e.CustomIconUUID = &id
		}
		return nil
	case "ForegroundColor":
		return readOptionalText(dec, el, &e.ForegroundColor)
	case "BackgroundColor":
		return readOptionalText(dec, el, &e.BackgroundColor)
	case "OverrideURL":
		return readOptionalText(dec, el, &e.OverrideURL)
	case "Tags":
		text, err := readElementText(dec, el)
		if err != nil {
			return err
		}
		e.Tags = splitTags(text)
		return nil
	case "Times":
		times, err := decodeTimes(dec, el)
		if err != nil {
			return err
		}
		e.Times = times
		return nil
	case "String":
		field, err := decodeStringField(dec, masker)
		if err != nil {
			return err
		}
		e.Strings.Set(field.Key, field.Value)
		return nil
	case "Binary":
		attachment, err := decodeEntryBinary(dec, pool)
		if err != nil {
			return err
		}
		e.Binaries.Set(attachment.Key, attachment.Data)
		return nil
	case "AutoType":
		at, err := decodeAutoType(dec)
		if err != nil {
			return err
		}
		e.AutoType = at
		return nil
	case "History":
		hist, err := decodeHistory(dec, masker, pool, protect)
		if err != nil {
			return err
		}
		e.History = hist
		return nil
	default:
		raw, err := captureRaw(dec, el)
		if err != nil {
			return err
		}
		e.UnknownElements = append(e.UnknownElements, model.RawElement{Name: el.Name.Local, InnerXML: raw})
		return nil
	}
}

func readOptionalText(dec *xml.Decoder, el xml.StartElement, dst **string) error {
	text, err := readElementText(dec, el)
	if err != nil {
		return err
	}
	if text != "" {
		*dst = &text
	}
	return nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ';' {
			if i > start {
				tags = append(tags, s[start:i])
			}
			start = i + 1
		}
	}
	return tags
}

func decodeStringField(dec *xml.Decoder, masker *innerstream.Masker) (model.StringField, error) {
	var field model.StringField
	for {
		tok, err := dec.Token()
		if err != nil {
			return field, err
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			if _, isEnd := tok.(xml.EndElement); isEnd {
				return field, nil
			}
			continue
		}
		switch el.Name.Local {
		case "Key":
			field.Key, err = readElementText(dec, el)
			if err != nil {
				return field, err
			}
		case "Value":
			protected := attrIsTrue(el.Attr, "Protected")
			text, err := readElementText(dec, el)
			if err != nil {
				return field, err
			}
			var plain []byte
			if protected {
				plain, err = masker.UnmaskForRead(text)
				if err != nil {
					return field, err
				}
			} else {
				plain = []byte(text)
			}
			field.Value = protectedstring.New(plain, protected)
		}
	}
}

func attrIsTrue(attrs []xml.Attr, name string) bool {
	for _, a := range attrs {
		if a.Name.Local == name {
			return parseBool(a.Value)
		}
	}
	return false
}

func decodeEntryBinary(dec *xml.Decoder, pool *BinaryPool) (model.BinaryAttachment, error) {
	var a model.BinaryAttachment
	for {
		tok, err := dec.Token()
		if err != nil {
			return a, err
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			if _, isEnd := tok.(xml.EndElement); isEnd {
				return a, nil
			}
			continue
		}
		switch el.Name.Local {
		case "Key":
			a.Key, err = readElementText(dec, el)
			if err != nil {
				return a, err
			}
		case "Value":
			refAttr := attrValue(el.Attr, "Ref")
			if _, err := readElementText(dec, el); err != nil {
				return a, err
			}
			if refAttr != "" {
				ref := int(atoui32(refAttr))
				if data, ok := pool.Get(ref); ok {
					a.Data = data
				}
			}
		}
	}
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func decodeAutoType(dec *xml.Decoder) (model.AutoType, error) {
	var at model.AutoType
	for {
		tok, err := dec.Token()
		if err != nil {
			return at, err
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			if _, isEnd := tok.(xml.EndElement); isEnd {
				return at, nil
			}
			continue
		}
		switch el.Name.Local {
		case "Enabled":
			text, err := readElementText(dec, el)
			if err != nil {
				return at, err
			}
			at.Enabled = parseBool(text)
		case "DataTransferObfuscation":
			text, err := readElementText(dec, el)
			if err != nil {
				return at, err
			}
			at.ObfuscationLevel = int(atoui32(text))
		case "DefaultSequence":
			if err := readOptionalText(dec, el, &at.DefaultSequence); err != nil {
				return at, err
			}
		case "Association":
			assoc, err := decodeAssociation(dec)
			if err != nil {
				return at, err
			}
			at.Associations = append(at.Associations, assoc)
		default:
			if _, err := captureRaw(dec, el); err != nil {
				return at, err
			}
		}
	}
}

func decodeAssociation(dec *xml.Decoder) (model.AutoTypeAssociation, error) {
	var a model.AutoTypeAssociation
	for {
		tok, err := dec.Token()
		if err != nil {
			return a, err
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			if _, isEnd := tok.(xml.EndElement); isEnd {
				return a, nil
			}
			continue
		}
		switch el.Name.Local {
		case "Window":
			a.WindowPattern, err = readElementText(dec, el)
		case "KeystrokeSequence":
			a.Sequence, err = readElementText(dec, el)
		}
		if err != nil {
			return a, err
		}
	}
}

func decodeHistory(dec *xml.Decoder, masker *innerstream.Masker, pool *BinaryPool, protect func(string) bool) ([]*model.Entry, error) {
	var history []*model.Entry
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			if _, isEnd := tok.(xml.EndElement); isEnd {
				return history, nil
			}
			continue
		}
		if el.Name.Local != "Entry" {
			if _, err := captureRaw(dec, el); err != nil {
				return nil, err
			}
			continue
		}
		snap, err := decodeEntry(dec, el, masker, pool, protect)
		if err != nil {
			return nil, err
		}
		history = append(history, snap)
	}
}
