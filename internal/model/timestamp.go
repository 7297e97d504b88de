package model

import "time"

// Timestamp is a UTC instant truncated to second granularity (spec §3).
type Timestamp struct {
	t time.Time
}

// Now returns the current instant as a Timestamp.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// NewTimestamp truncates t to second granularity in UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC().Truncate(time.Second)}
}

// Time returns the underlying time.Time.
func (ts Timestamp) Time() time.Time { return ts.t }

// Before reports whether ts is strictly earlier than other.
func (ts Timestamp) Before(other Timestamp) bool { return ts.t.Before(other.t) }

// After reports whether ts is strictly later than other.
func (ts Timestamp) After(other Timestamp) bool { return ts.t.After(other.t) }

// Equal reports second-granularity equality.
func (ts Timestamp) Equal(other Timestamp) bool { return ts.t.Equal(other.t) }

// ISO8601 renders ts the way the body codec stores timestamps (spec §4.6).
func (ts Timestamp) ISO8601() string {
	return ts.t.Format(time.RFC3339)
}

// ParseISO8601 parses a timestamp in the format ISO8601 produces.
func ParseISO8601(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Timestamp{}, err
	}
	return NewTimestamp(t), nil
}

// Times holds the four timestamps plus the expires flag every entity
// carries, and (for groups and entries) the location-changed timestamp
// that records moves (spec §3).
type Times struct {
	CreationTime         Timestamp
	LastModificationTime Timestamp
	LastAccessTime       Timestamp
	ExpiryTime           Timestamp
	Expires              bool
	LocationChanged      Timestamp
}

// NewTimes returns a Times value with every timestamp set to now and
// Expires false, as used when creating a fresh entity.
func NewTimes() Times {
	now := Now()
	return Times{
		CreationTime:         now,
		LastModificationTime: now,
		LastAccessTime:       now,
		ExpiryTime:           now,
		Expires:              false,
		LocationChanged:      now,
	}
}

// Touch updates LastAccessTime to now.
func (t *Times) Touch() {
	t.LastAccessTime = Now()
}

// Modify updates LastModificationTime (and LastAccessTime, since any edit
// is also an access) to now.
func (t *Times) Modify() {
	now := Now()
	t.LastModificationTime = now
	t.LastAccessTime = now
}

// Move updates LocationChanged to now.
func (t *Times) Move() {
	t.LocationChanged = Now()
}

// IsExpired reports whether Expires is set and ExpiryTime has passed
// relative to now.
func (t Times) IsExpired(now Timestamp) bool {
	return t.Expires && !now.Before(t.ExpiryTime)
}
