package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid login or password")
)

// ValidationError reports bad input before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InUseError is returned when a delete is blocked by dependent rows.
type InUseError struct {
	Entity string
	Reason string
}

func (e InUseError) Error() string {
	return fmt.Sprintf("cannot delete %s: %s", e.Entity, e.Reason)
}

func Invalid(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

func NotFound(entity string, id int64) error {
	return NotFoundError{Entity: entity, ID: id}
}

func InUse(entity, reason string) error {
	return InUseError{Entity: entity, Reason: reason}
}

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

// FromPg translates store errors that carry a domain meaning. Other errors
// are returned unchanged.
func FromPg(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(entity, id)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return InUse(entity, "it is still referenced by other records")
	case pgUniqueViolation:
		return Invalid(constraintField(pgErr), "value already exists")
	case pgCheckViolation:
		return Invalid(constraintField(pgErr), "value is out of range")
	case pgNumericOutOfRange:
		return Invalid("", "amount is too large")
	}
	return err
}

// constraintField names the column behind a violated constraint. PostgreSQL
// leaves ColumnName empty for unique and check violations, so the field is
// taken from default constraint names such as employees_login_key.
func constraintField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	name := strings.TrimPrefix(pgErr.ConstraintName, pgErr.TableName+"_")
	for _, suffix := range []string{"_key", "_check"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}
