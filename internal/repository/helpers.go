package repository

import (
	"database/sql"
	"time"
)

// timeLayout keeps sub-second precision so records created in the same
// second still order correctly.
const timeLayout = time.RFC3339Nano

// nullableFloatToValue converts a *float64 to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableFloatToValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// floatPtr converts a scanned nullable REAL back to a *float64.
func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
