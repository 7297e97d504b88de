// Package bodycodec maps the entity tree of package model to and from the
// <KeePassFile> structured body document described in spec §4.6: <Meta>
// database-level settings, <Root> holding the single root <Group> plus
// <DeletedObjects>. Protected string values are additionally masked with
// the keystream from package innerstream, consumed in strict document
// order (depth-first, stable child order, then string fields in insertion
// order within each entry).
//
// The codec works at the XML token level rather than through struct-tag
// marshaling, because the body tree is recursive (groups contain groups)
// and must preserve unknown child elements verbatim for forward
// compatibility with later format minor versions (spec §9).
package bodycodec

import "encoding/xml"

// elementNames used throughout the encoder/decoder, kept as a single
// source of truth so encode and decode can't drift apart.
var (
	nameKeePassFile    = xml.Name{Local: "KeePassFile"}
	nameMeta           = xml.Name{Local: "Meta"}
	nameRoot           = xml.Name{Local: "Root"}
	nameGroup          = xml.Name{Local: "Group"}
	nameEntry          = xml.Name{Local: "Entry"}
	nameDeletedObjects = xml.Name{Local: "DeletedObjects"}
	nameDeletedObject  = xml.Name{Local: "DeletedObject"}
	nameHistory        = xml.Name{Local: "History"}
	nameString         = xml.Name{Local: "String"}
	nameBinary         = xml.Name{Local: "Binary"}
	nameAutoType       = xml.Name{Local: "AutoType"}
	nameAssociation    = xml.Name{Local: "Association"}
	nameTimes          = xml.Name{Local: "Times"}
)
