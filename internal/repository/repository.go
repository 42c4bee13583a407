package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound - the requested row does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrOrderConflict - the order changed between read and conditional update.
	ErrOrderConflict = errors.New("order status changed concurrently")
)

// Postgres error codes reported when a serializable transaction loses a race.
const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
	foreignKeyViolation  = "23503"
)

// isSerializationError reports whether err means another transaction won the race.
func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == serializationFailure || pgErr.Code == deadlockDetected
	}
	return false
}

// isForeignKeyViolation reports whether err means a referenced row is missing.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
