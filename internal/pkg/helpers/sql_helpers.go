package helpers

import (
	"database/sql"
	"time"
)

// GetNullString converts a string pointer to sql.NullString.
func GetNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// GetNullInt converts an int pointer to sql.NullInt64.
func GetNullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// GetNullTime converts a time pointer to sql.NullTime, normalized to UTC.
func GetNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// IntPtr returns the value of a scanned nullable integer as a pointer.
func IntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// TimePtr returns the value of a scanned nullable time as a pointer.
func TimePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	v := n.Time.UTC()
	return &v
}
