package domain

import "time"

// Entry is a stored value with an optional absolute expiry.
//
// Entries are values, not references: the store copies them in and out
// under its lock, so an Entry is never shared between goroutines.
type Entry struct {
	// Value is the stored payload.
	Value string

	// ExpiresAt is the absolute expiration timestamp (Unix nanoseconds).
	// Zero means the entry never expires.
	ExpiresAt int64
}

// NewEntry creates an entry for value. A positive ttl sets ExpiresAt to
// now+ttl; otherwise the entry never expires.
func NewEntry(value string, ttl time.Duration, now time.Time) Entry {
	e := Entry{Value: value}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl).UnixNano()
	}
	return e
}

// IsExpired reports whether the entry is expired at now.
// An entry is expired from its expiry instant onwards.
func (e Entry) IsExpired(now time.Time) bool {
	if e.ExpiresAt == 0 {
		return false
	}
	return now.UnixNano() >= e.ExpiresAt
}

// ExpiresAtTime returns ExpiresAt as time.Time, or the zero time if unset.
func (e Entry) ExpiresAtTime() time.Time {
	if e.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(0, e.ExpiresAt)
}
