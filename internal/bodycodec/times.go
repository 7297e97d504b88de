package bodycodec

import (
	"encoding/xml"

	"github.com/vaultfile/vaultfile/internal/model"
	"github.com/vaultfile/vaultfile/internal/vaulterr"
)

func encodeTimes(enc *xml.Encoder, t model.Times) error {
	start := xml.StartElement{Name: nameTimes}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeText(enc, "CreationTime", t.CreationTime.ISO8601()); err != nil {
		return err
	}
	if err := writeText(enc, "LastModificationTime", t.LastModificationTime.ISO8601()); err != nil {
		return err
	}
	if err := writeText(enc, "LastAccessTime", t.LastAccessTime.ISO8601()); err != nil {
		return err
	}
	if err := writeText(enc, "ExpiryTime", t.ExpiryTime.ISO8601()); err != nil {
		return err
	}
	if err := writeBool(enc, "Expires", t.Expires); err != nil {
		return err
	}
	if err := writeText(enc, "LocationChanged", t.LocationChanged.ISO8601()); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

// decodeTimes consumes the <Times> element already opened by start.
func decodeTimes(dec *xml.Decoder, start xml.StartElement) (model.Times, error) {
	var t model.Times
	for {
		tok, err := dec.Token()
		if err != nil {
			return t, vaulterr.Wrap(vaulterr.KindMalformedBody, "reading Times", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			text, err := readElementText(dec, el)
			if err != nil {
				return t, vaulterr.Wrap(vaulterr.KindMalformedBody, "reading Times field "+el.Name.Local, err)
			}
			switch el.Name.Local {
			case "CreationTime":
				t.CreationTime, err = parseTimestamp(text)
			case "LastModificationTime":
				t.LastModificationTime, err = parseTimestamp(text)
			case "LastAccessTime":
				t.LastAccessTime, err = parseTimestamp(text)
			case "ExpiryTime":
				t.ExpiryTime, err = parseTimestamp(text)
			case "LocationChanged":
				t.LocationChanged, err = parseTimestamp(text)
			case "Expires":
				t.Expires = parseBool(text)
			}
			if err != nil {
				return t, vaulterr.Wrap(vaulterr.KindMalformedBody, "parsing Times field "+el.Name.Local, err)
			}
		case xml.EndElement:
			return t, nil
		}
	}
}

func parseTimestamp(s string) (model.Timestamp, error) {
	if s == "" {
		return model.Timestamp{}, nil
	}
	return model.ParseISO8601(s)
}
