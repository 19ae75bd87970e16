package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup or mutation matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateTitle is returned when a course title is already taken.
	ErrDuplicateTitle = errors.New("course with this title already exists")
	// ErrDuplicateEnrollment is returned when a student is already enrolled in a course.
	ErrDuplicateEnrollment = errors.New("student is already enrolled in this course")
	// ErrInvalidValue is returned when a value does not fit its column.
	ErrInvalidValue = errors.New("value out of range for column")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgStringTooLong       = "22001"
	pgNumericOutOfRange   = "22003"
)

// isConstraintViolation reports whether err is a PostgreSQL error with the
// given SQLSTATE raised by the named constraint.
func isConstraintViolation(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code && pgErr.ConstraintName == constraint
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// mapDataError turns PostgreSQL data exceptions into ErrInvalidValue and
// passes every other error through unchanged.
func mapDataError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgStringTooLong || pgErr.Code == pgNumericOutOfRange) {
		return fmt.Errorf("%w: %s", ErrInvalidValue, pgErr.Message)
	}
	return err
}
