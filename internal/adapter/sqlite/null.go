package sqlite

import "database/sql"

// StringPtr converts a scanned nullable TEXT column.
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Int64Ptr converts a scanned nullable INTEGER column.
func Int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

// BoolPtr converts a scanned nullable 0/1 column.
func BoolPtr(ni sql.NullInt64) *bool {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64 != 0
	return &v
}

// BoolArg converts an optional flag to the 0/1 form stored in the schema.
func BoolArg(b *bool) any {
	if b == nil {
		return nil
	}
	if *b {
		return int64(1)
	}
	return int64(0)
}

// StringArg converts an optional string to a bind argument, nil as NULL.
func StringArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Int64Arg converts an optional integer to a bind argument, nil as NULL.
func Int64Arg(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
