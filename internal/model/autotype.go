package model

// AutoTypeAssociation binds an auto-type keystroke sequence to a window
// title pattern (spec §3).
type AutoTypeAssociation struct {
	WindowPattern string
	Sequence      string
}

// AutoType is an entry's auto-type configuration (spec §3). The
// auto-typing subsystem itself is out of scope (spec §1); only this
// association data that the core persists is modeled here.
type AutoType struct {
	Enabled           bool
	ObfuscationLevel  int
	DefaultSequence   *string
	Associations      []AutoTypeAssociation
}

// NewAutoType returns the default auto-type configuration for a freshly
// created entry: enabled, no obfuscation, no associations.
func NewAutoType() AutoType {
	return AutoType{Enabled: true}
}

// Clone returns a deep copy, used when pushing history snapshots.
func (a AutoType) Clone() AutoType {
	out := a
	if a.DefaultSequence != nil {
		seq := *a.DefaultSequence
		out.DefaultSequence = &seq
	}
	out.Associations = append([]AutoTypeAssociation(nil), a.Associations...)
	return out
}
