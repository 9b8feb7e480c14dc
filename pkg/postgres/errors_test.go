package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// pgCheckViolation is the SQLSTATE for check_violation
const pgCheckViolation = "23514"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"no rows", pgx.ErrNoRows, db.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), db.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "applications_active_pair_idx"}, db.ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: pgForeignKeyViolation}, db.ErrNotFound},
		{"connection exception", &pgconn.PgError{Code: "08006"}, db.ErrUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, db.ErrUnavailable},
		{"deadline", context.DeadlineExceeded, db.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.expected)
		})
	}
}

func TestClassify_PassesThroughOtherErrors(t *testing.T) {
	assert.NoError(t, classify(nil))

	check := &pgconn.PgError{Code: pgCheckViolation}
	got := classify(check)
	assert.Same(t, check, got)

	plain := errors.New("something else")
	assert.Equal(t, plain, classify(plain))
}
