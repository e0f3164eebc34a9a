package core

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// StorageError is returned by every Gateway failure. Message carries the
// store's own diagnostic for display; Stack is captured for debug logging.
type StorageError struct {
	Op         string // list, get, create, update, delete
	ID         string // posting id when the operation targets one
	NotFound   bool
	Code       string // SQLSTATE when the store reported one
	Constraint string // violated constraint name, if any
	Message    string
	Err        error
	Stack      []byte
}

func (e *StorageError) Error() string {
	var b strings.Builder
	b.WriteString("jobs ")
	b.WriteString(e.Op)
	if e.ID != "" {
		fmt.Fprintf(&b, " %s", e.ID)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *StorageError) Unwrap() error { return e.Err }

// StackTrace returns the stack captured when the error was created.
func (e *StorageError) StackTrace() []byte { return e.Stack }

// Conflict reports whether the store rejected the data itself (integrity
// constraint violation, SQLSTATE class 23).
func (e *StorageError) Conflict() bool {
	return strings.HasPrefix(e.Code, "23")
}

// Named CHECK constraints of the jobs table.
const (
	ConstraintSalaryRange = "jobs_salary_range"
	ConstraintDateOrder   = "jobs_date_order"
)

var constraintFields = map[string]string{
	ConstraintSalaryRange: "salaryFrom",
	ConstraintDateOrder:   "endDate",
}

// Field returns the external field behind a violated constraint. Besides
// the named constraints it understands Postgres' default jobs_<column>_check
// and jobs_<column>_key names.
func (e *StorageError) Field() string {
	if f, ok := constraintFields[e.Constraint]; ok {
		return f
	}
	name := strings.TrimPrefix(e.Constraint, "jobs_")
	for _, suffix := range []string{"_check", "_key", "_not_null"} {
		if col, ok := strings.CutSuffix(name, suffix); ok {
			if f, ok := FieldFor(col); ok {
				return f
			}
		}
	}
	return ""
}

// ErrJobNotFound is wrapped by not-found storage errors.
var ErrJobNotFound = errors.New("job posting not found")

func newStorageError(op, id string, err error) *StorageError {
	se := &StorageError{
		Op:      op,
		ID:      id,
		Message: err.Error(),
		Err:     err,
		Stack:   goerrors.Wrap(err, 2).Stack(),
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		se.Code = pgErr.Code
		se.Constraint = pgErr.ConstraintName
		se.Message = pgErr.Message
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrJobNotFound) {
		se.NotFound = true
		se.Message = ErrJobNotFound.Error()
		se.Err = ErrJobNotFound
	}
	return se
}

func notFoundError(op, id string) *StorageError {
	return newStorageError(op, id, ErrJobNotFound)
}

// constraintError builds the error the store reports for a CHECK violation.
func constraintError(op, id, constraint string) *StorageError {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23514",
		Message:        fmt.Sprintf("new row for relation \"jobs\" violates check constraint %q", constraint),
		TableName:      "jobs",
		ConstraintName: constraint,
	}
	return newStorageError(op, id, pgErr)
}

// IsNotFound reports whether err is a not-found storage error.
func IsNotFound(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.NotFound
}
