package model

import (
	"regexp"
	"strings"
)

// FieldMask selects which entry fields a search considers (spec §6).
type FieldMask uint16

const (
	FieldTitles FieldMask = 1 << iota
	FieldUserNames
	FieldURLs
	FieldPasswords
	FieldNotesMask
	FieldOther
	FieldUUIDs
	FieldTagsMask

	FieldAll = FieldTitles | FieldUserNames | FieldURLs | FieldPasswords |
		FieldNotesMask | FieldOther | FieldUUIDs | FieldTagsMask
)

// SearchOptions configures Search.
type SearchOptions struct {
	Fields        FieldMask
	CaseSensitive bool
	Regex         bool
}

// Search returns every live entry under root whose selected fields match
// query, per the options (spec §6).
func Search(root *Group, query string, opts SearchOptions) ([]*Entry, error) {
	var matcher func(s string) bool
	if opts.Regex {
		pattern := query
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		matcher = re.MatchString
	} else {
		needle := query
		if !opts.CaseSensitive {
			needle = strings.ToLower(needle)
		}
		matcher = func(s string) bool {
			if !opts.CaseSensitive {
				s = strings.ToLower(s)
			}
			return strings.Contains(s, needle)
		}
	}

	var matches []*Entry
	Walk(root, func(_ *Group, e *Entry) WalkAction {
		if e == nil {
			return WalkContinue
		}
		if entryMatches(e, matcher, opts.Fields) {
			matches = append(matches, e)
		}
		return WalkContinue
	})
	return matches, nil
}

func entryMatches(e *Entry, matcher func(string) bool, mask FieldMask) bool {
	if mask&FieldUUIDs != 0 && matcher(e.UUID.Hex()) {
		return true
	}
	if mask&FieldTagsMask != 0 {
		for _, tag := range e.Tags {
			if matcher(tag) {
				return true
			}
		}
	}
	checks := []struct {
		bit   FieldMask
		field string
	}{
		{FieldTitles, FieldTitle},
		{FieldUserNames, FieldUserName},
		{FieldURLs, FieldURL},
		{FieldPasswords, FieldPassword},
		{FieldNotesMask, FieldNotes},
	}
	for _, c := range checks {
		if mask&c.bit == 0 {
			continue
		}
		if v, ok := e.Strings.Get(c.field); ok && matcher(v.String()) {
			return true
		}
	}
	if mask&FieldOther != 0 {
		for _, f := range e.Strings.Fields() {
			if isStandardField(f.Key) {
				continue
			}
			if matcher(f.Value.String()) {
				return true
			}
		}
	}
	return false
}

func isStandardField(name string) bool {
	for _, s := range StandardFields {
		if s == name {
			return true
		}
	}
	return false
}

// FindByUUID looks up a single entry or group anywhere under root by UUID
// (spec §6 "Search: by UUID").
func FindByUUID(root *Group, id UUID) (group *Group, entry *Entry) {
	if g := root.FindGroupByUUID(id); g != nil {
		return g, nil
	}
	return nil, root.FindEntryByUUID(id)
}
