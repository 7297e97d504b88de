package model

// DeletedObject is a tombstone enabling Synchronize merges across
// separated copies (spec §3, §4.7).
type DeletedObject struct {
	UUID         UUID
	DeletionTime Timestamp
}
