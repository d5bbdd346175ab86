package sqlite

import "time"

// timestampLayout matches strftime('%Y-%m-%dT%H:%M:%fZ','now').
const timestampLayout = "2006-01-02T15:04:05.000Z"

// ParseTimestamp parses a column written by the schema defaults. Unparsable
// values yield the zero time.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
			return t2
		}
		return time.Time{}
	}
	return t
}
