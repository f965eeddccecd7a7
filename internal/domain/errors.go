package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched through errors.Is by every typed error below.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrImport     = errors.New("import rejected")
)

// ValidationError rejects a mutation that would break an invariant.
// HeldBy names the role that already holds Accountable on a RACI conflict.
type ValidationError struct {
	Entity EntityKind
	Field  string
	Reason string
	HeldBy string
}

func (e ValidationError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	if e.Entity != "" {
		msg = fmt.Sprintf("%s %s", e.Entity, msg)
	}
	return msg
}

func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError is returned when an operation names an id that does not exist.
type NotFoundError struct {
	Entity EntityKind
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ImportError reports a malformed persisted document.
type ImportError struct {
	Reason string
	Err    error
}

func (e ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import: %s: %v", e.Reason, e.Err)
	}
	return "import: " + e.Reason
}

func (e ImportError) Is(target error) bool { return target == ErrImport }
func (e ImportError) Unwrap() error        { return e.Err }

func Invalid(kind EntityKind, field, reason string) error {
	return ValidationError{Entity: kind, Field: field, Reason: reason}
}

func Missing(kind EntityKind, id string) error {
	return NotFoundError{Entity: kind, ID: id}
}
