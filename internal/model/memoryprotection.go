package model

// MemoryProtectionConfig indicates which standard fields are marked
// protected when creating new entries (spec §3). Only Password defaults to
// protected.
type MemoryProtectionConfig struct {
	Title    bool
	UserName bool
	Password bool
	URL      bool
	Notes    bool
}

// DefaultMemoryProtectionConfig returns the database default: only
// Password is protected.
func DefaultMemoryProtectionConfig() MemoryProtectionConfig {
	return MemoryProtectionConfig{Password: true}
}

// ProtectField reports whether fieldName should be stored protected under
// this configuration. Non-standard field names are always protected,
// matching the conservative default used elsewhere in the pack for
// free-form custom fields.
func (m MemoryProtectionConfig) ProtectField(fieldName string) bool {
	switch fieldName {
	case FieldTitle:
		return m.Title
	case FieldUserName:
		return m.UserName
	case FieldPassword:
		return m.Password
	case FieldURL:
		return m.URL
	case FieldNotes:
		return m.Notes
	default:
		return true
	}
}
