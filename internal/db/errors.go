package db

import (
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("db: not found")

	// ErrDuplicateNumber indicates an insert hit the unique (scope, number)
	// index. The allocator treats this as retryable; every other insert
	// failure propagates as-is.
	ErrDuplicateNumber = errors.New("db: duplicate sequence number")
)

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		serr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
