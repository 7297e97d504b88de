package model

// TriState models a boolean that can also "inherit" its effective value
// from an ancestor group (spec §3: Group.enable_auto_type /
// enable_searching).
type TriState int

const (
	Inherit TriState = iota
	Enabled
	Disabled
)
