package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories react to.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	CheckViolation      = "23514"
	NumericOutOfRange   = "22003"
)

// PgErrorCode returns the SQLSTATE of err, or "" when err is not a *pgconn.PgError.
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err violates the named unique constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func IsForeignKeyViolation(err error) bool {
	return PgErrorCode(err) == ForeignKeyViolation
}

// IsValueViolation reports whether the server rejected a value itself: a CHECK
// constraint or a number too large for its column.
func IsValueViolation(err error) bool {
	switch PgErrorCode(err) {
	case CheckViolation, NumericOutOfRange:
		return true
	}
	return false
}
