package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// CodedError is a business error carrying a stable machine-readable code.
type CodedError struct {
	Code    string
	Message string
}

func (e *CodedError) Error() string { return e.Message }

// New creates a coded sentinel error.
func New(code, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// Code returns the stable code of the first CodedError in err's chain, or "".
func Code(err error) string {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsUniqueViolation reports whether err was raised by a unique constraint.
// Covers both gorm's translated error and the raw driver error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsUniqueViolationOn reports whether err is a unique violation of the named constraint.
// Errors that carry no constraint name (gorm's translated form) never match.
func IsUniqueViolationOn(err error, constraint string) bool {
	return IsUniqueViolation(err) && ConstraintName(err) == constraint
}

// ConstraintName returns the violated constraint name for driver errors, or "".
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
