package model

import "github.com/vaultfile/vaultfile/internal/protectedstring"

// Standard string field names that must be present (possibly empty) on
// every live entry (spec §3).
const (
	FieldTitle    = "Title"
	FieldUserName = "UserName"
	FieldPassword = "Password"
	FieldURL      = "URL"
	FieldNotes    = "Notes"
)

// StandardFields lists the fixed set of standard field names in the order
// they are conventionally displayed.
var StandardFields = []string{FieldTitle, FieldUserName, FieldPassword, FieldURL, FieldNotes}

// StringField is one (name, value) pair in an entry's string bag.
type StringField struct {
	Key   string
	Value protectedstring.ProtectedString
}

// StringBag is the ordered map<name, ProtectedString> of spec §3: a plain
// slice preserves insertion order (which is user-visible and must survive
// save/load) while Get/Set/Remove give it map-like ergonomics.
type StringBag struct {
	fields []StringField
}

// Get returns the value for key and whether it was present.
func (b *StringBag) Get(key string) (protectedstring.ProtectedString, bool) {
	for _, f := range b.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return protectedstring.ProtectedString{}, false
}

// Set inserts or updates key, preserving its existing position if already
// present, or appending it at the end otherwise.
func (b *StringBag) Set(key string, value protectedstring.ProtectedString) {
	for i, f := range b.fields {
		if f.Key == key {
			b.fields[i].Value = value
			return
		}
	}
	b.fields = append(b.fields, StringField{Key: key, Value: value})
}

// Remove deletes key if present.
func (b *StringBag) Remove(key string) {
	for i, f := range b.fields {
		if f.Key == key {
			b.fields = append(b.fields[:i], b.fields[i+1:]...)
			return
		}
	}
}

// Fields returns the fields in insertion order. The returned slice must
// not be mutated by callers.
func (b *StringBag) Fields() []StringField {
	return b.fields
}

// EnsureStandardFields makes sure every standard field name (spec §3) is
// present, inserting an empty value with the given protect flag for any
// that are missing.
func (b *StringBag) EnsureStandardFields(protect func(name string) bool) {
	for _, name := range StandardFields {
		if _, ok := b.Get(name); !ok {
			b.Set(name, protectedstring.New(nil, protect(name)))
		}
	}
}

// Clone returns a deep copy of the bag (string values are themselves
// immutable, so only the slice needs copying).
func (b *StringBag) Clone() StringBag {
	return StringBag{fields: append([]StringField(nil), b.fields...)}
}

// BinaryAttachment is one (name, bytes) pair in an entry's binary bag.
type BinaryAttachment struct {
	Key  string
	Data []byte
}

// BinaryBag is the ordered map<name, bytes> of spec §3.
type BinaryBag struct {
	attachments []BinaryAttachment
}

func (b *BinaryBag) Get(key string) ([]byte, bool) {
	for _, a := range b.attachments {
		if a.Key == key {
			return a.Data, true
		}
	}
	return nil, false
}

func (b *BinaryBag) Set(key string, data []byte) {
	for i, a := range b.attachments {
		if a.Key == key {
			b.attachments[i].Data = data
			return
		}
	}
	b.attachments = append(b.attachments, BinaryAttachment{Key: key, Data: data})
}

func (b *BinaryBag) Remove(key string) {
	for i, a := range b.attachments {
		if a.Key == key {
			b.attachments = append(b.attachments[:i], b.attachments[i+1:]...)
			return
		}
	}
}

func (b *BinaryBag) Attachments() []BinaryAttachment {
	return b.attachments
}

func (b *BinaryBag) Clone() BinaryBag {
	out := BinaryBag{attachments: make([]BinaryAttachment, len(b.attachments))}
	for i, a := range b.attachments {
		out.attachments[i] = BinaryAttachment{Key: a.Key, Data: append([]byte(nil), a.Data...)}
	}
	return out
}
