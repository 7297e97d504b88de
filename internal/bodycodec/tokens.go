package bodycodec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// uitoa formats an unsigned integer field the way the body document spells
// it: plain decimal, no leading zeros.
func uitoa(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

// atoui32 parses a decimal unsigned integer field, treating anything
// unparsable as zero rather than failing the whole document over a
// cosmetic field.
func atoui32(s string) uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// writeText emits <name>text</name>.
func writeText(enc *xml.Encoder, name string, text string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// writeBool emits <name>True</name> or <name>False</name>, the literal
// boolean spelling spec §4.6 requires.
func writeBool(enc *xml.Encoder, name string, v bool) error {
	if v {
		return writeText(enc, name, "True")
	}
	return writeText(enc, name, "False")
}

// readElementText reads chardata content up to the matching end element for
// a StartElement already consumed from dec, skipping any nested elements
// (there shouldn't be any for a scalar field, but a forward-compatible
// reader tolerates it rather than erroring).
func readElementText(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var buf bytes.Buffer
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if depth == 0 {
				buf.Write(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return buf.String(), nil
			}
			depth--
		}
	}
}

func parseBool(s string) bool {
	return s == "True" || s == "true" || s == "1"
}

// captureRaw re-serializes the element already opened by start (and all of
// its descendants) into a standalone byte slice, for unknown-element
// preservation (spec §9). The returned bytes round-trip through emitRaw.
func captureRaw(dec *xml.Decoder, start xml.StartElement) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := enc.EncodeToken(start); err != nil {
		return nil, err
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
			return nil, err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// emitRaw re-emits previously captured bytes into enc, token by token.
func emitRaw(enc *xml.Encoder, raw []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("bodycodec: re-emitting preserved element: %w", err)
		}
		if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
			return err
		}
	}
}
