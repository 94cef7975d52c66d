// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to existing dependent records (e.g. deleting
// a festival whose booths still carry reservations).
package repository

import (
	"errors"
	"strings"
	"time"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a festival that still has reservations. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is a unique-constraint violation.
// MySQL surfaces these as error 1062; SQLite (used by the test suite)
// reports a "UNIQUE constraint failed" message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique constraint")
}

// dbTimeLayout is the canonical DATETIME format for every timestamp
// column. Values are always written and compared in UTC; formatting
// happens in Go so that the SQL stays portable across drivers.
const dbTimeLayout = "2006-01-02 15:04:05"

// formatDBTime renders t for storage in a DATETIME/TEXT column.
func formatDBTime(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

// parseDBTime converts a stored timestamp back into a UTC time.Time.
// The zero time is returned for empty or malformed values.
func parseDBTime(s string) time.Time {
	t, err := time.Parse(dbTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
