package taggable

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Common errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrTagNotFound      = errors.New("tag not found")
	ErrInvalidTag       = errors.New("invalid tag: normalizes to an empty slug")
	ErrInvalidReference = errors.New("invalid tag reference")
	ErrUnconfiguredRole = errors.New("no model configured for role")
	ErrDuplicateAlias   = errors.New("morph alias already registered")
	ErrMissingIdentity  = errors.New("entity does not expose an identity")
)

// Error provides detailed error information
type Error struct {
	Op         string // Operation that failed
	Table      string // Table involved
	Err        error  // Underlying error
	Constraint string // Constraint name (if applicable)
}

func (e *Error) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("taggable: %s", e.Op))

	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("table=%s", e.Table))
	}

	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("constraint=%s", e.Constraint))
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for Error type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return errors.Is(e.Err, target)
	}

	if t.Op != "" && e.Op == t.Op {
		return true
	}

	return errors.Is(e.Err, t.Err)
}

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// parseSQLError converts driver errors into taggable errors. Postgres errors
// are classified by SQLSTATE when the driver exposes one, with a message-text
// fallback for drivers that do not.
func parseSQLError(err error, op, table string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{
			Op:    op,
			Table: table,
			Err:   ErrNotFound,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) == uniqueViolation {
			return &Error{
				Op:         op,
				Table:      table,
				Err:        ErrDuplicateKey,
				Constraint: pqErr.Constraint,
			}
		}
		return &Error{
			Op:    op,
			Table: table,
			Err:   err,
		}
	}

	errStr := err.Error()

	if strings.Contains(errStr, "duplicate key value violates unique constraint") {
		return &Error{
			Op:         op,
			Table:      table,
			Err:        ErrDuplicateKey,
			Constraint: extractConstraintName(errStr),
		}
	}

	return &Error{
		Op:    op,
		Table: table,
		Err:   err,
	}
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// GetConstraintName extracts the constraint name from an error
func GetConstraintName(err error) string {
	var tagErr *Error
	if errors.As(err, &tagErr) {
		return tagErr.Constraint
	}
	return ""
}

func extractConstraintName(errStr string) string {

	start := strings.Index(errStr, "\"")
	if start == -1 {
		return ""
	}
	end := strings.Index(errStr[start+1:], "\"")
	if end == -1 {
		return ""
	}
	return errStr[start+1 : start+1+end]
}
