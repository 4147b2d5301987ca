package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestFromPg(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{
			name:  "nil",
			err:   nil,
			check: func(err error) bool { return err == nil },
		},
		{
			name: "no rows",
			err:  fmt.Errorf("get category: %w", pgx.ErrNoRows),
			check: func(err error) bool {
				var nf NotFoundError
				return errors.As(err, &nf) && nf.Entity == "category" && nf.ID == 4
			},
		},
		{
			name: "foreign key",
			err:  &pgconn.PgError{Code: "23503"},
			check: func(err error) bool {
				var iu InUseError
				return errors.As(err, &iu)
			},
		},
		{
			name: "unique",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", TableName: "employees", ConstraintName: "employees_login_key"}),
			check: func(err error) bool {
				var ve ValidationError
				return errors.As(err, &ve) && ve.Field == "login"
			},
		},
		{
			name: "check",
			err:  &pgconn.PgError{Code: "23514", TableName: "positions", ConstraintName: "positions_hourly_rate_check"},
			check: func(err error) bool {
				var ve ValidationError
				return errors.As(err, &ve) && ve.Field == "hourly_rate"
			},
		},
		{
			name: "numeric overflow",
			err:  fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "22003"}),
			check: func(err error) bool {
				var ve ValidationError
				return errors.As(err, &ve)
			},
		},
		{
			name:  "other",
			err:   plain,
			check: func(err error) bool { return err == plain },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPg(tt.err, "category", 4)
			if !tt.check(got) {
				t.Errorf("FromPg() = %v", got)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	if got := Invalid("lines", "order must contain at least one line").Error(); got != "lines: order must contain at least one line" {
		t.Errorf("Error() = %q", got)
	}
	if got := Invalid("", "bad").Error(); got != "bad" {
		t.Errorf("Error() = %q", got)
	}
}
