package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPgErrorClassification(t *testing.T) {
	testCases := []struct {
		name          string
		err           error
		serialization bool
		foreignKey    bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true, false},
		{"deadlock", fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"}), true, false},
		{"missing supplier", fmt.Errorf("upsert: %w", &pgconn.PgError{Code: "23503"}), false, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false, false},
		{"plain error", errors.New("boom"), false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isSerializationError(tc.err); got != tc.serialization {
				t.Errorf("Expected serialization %v, got %v", tc.serialization, got)
			}
			if got := isForeignKeyViolation(tc.err); got != tc.foreignKey {
				t.Errorf("Expected foreign key %v, got %v", tc.foreignKey, got)
			}
		})
	}
}

func TestTranslateTxError(t *testing.T) {
	if err := translateTxError(&pgconn.PgError{Code: "40001"}, "commit"); !errors.Is(err, ErrOrderConflict) {
		t.Errorf("Expected ErrOrderConflict, got %v", err)
	}
	cause := errors.New("connection reset")
	if err := translateTxError(cause, "commit"); !errors.Is(err, cause) || errors.Is(err, ErrOrderConflict) {
		t.Errorf("Expected wrapped cause, got %v", err)
	}
}
