package store

import (
	"errors"
	"fmt"

	"github.com/diewo77/nexusmanager/validation"
)

// Error kinds. Every error returned by the store and the services layer
// matches exactly one of them through errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("already exists")
	ErrNotFound    = errors.New("record not found")
	ErrPersistence = errors.New("persistence failure")
)

// Severity mirrors the flash category the presentation layer should use.
type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
)

const persistenceMessage = "the change could not be saved, please try again"

// Error is a classified failure. For rejected submissions it also carries the
// field violations and the raw input so a form can be re-rendered pre-filled.
type Error struct {
	Kind       error
	Entity     Entity
	ID         uint
	Message    string
	Severity   Severity
	Violations validation.Violations
	Input      validation.RawFields

	cause error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Entity, e.Message)
	if e.ID != 0 {
		msg = fmt.Sprintf("%s %d: %s", e.Entity, e.ID, e.Message)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool { return target == e.Kind }

// Unwrap exposes the storage cause of a persistence failure.
func (e *Error) Unwrap() error { return e.cause }

// Code is the machine readable kind used on the wire.
func (e *Error) Code() string { return Code(e) }

// Code returns the wire code of err's kind, "internal" for unclassified errors.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}

// NotFound reports a missing row.
func NotFound(entity Entity, id uint) *Error {
	return &Error{
		Kind:     ErrNotFound,
		Entity:   entity,
		ID:       id,
		Message:  "record not found",
		Severity: SeverityDanger,
	}
}

// Conflict reports a uniqueness violation on field.
func Conflict(entity Entity, field, message string) *Error {
	return &Error{
		Kind:       ErrConflict,
		Entity:     entity,
		Message:    message,
		Severity:   SeverityWarning,
		Violations: validation.Violations{field: "already_exists"},
	}
}

// Invalid reports field violations. The message is the one of the first
// violated field in order.
func Invalid(entity Entity, v validation.Violations, order []string) *Error {
	_, code := v.First(order)
	sev := SeverityDanger
	if validation.Warning(code) {
		sev = SeverityWarning
	}
	return &Error{
		Kind:       ErrValidation,
		Entity:     entity,
		Message:    validation.Message(code),
		Severity:   sev,
		Violations: v,
	}
}

// Persistence wraps a storage fault. The message stays generic; the cause is
// only reachable through Unwrap and the logs.
func Persistence(entity Entity, id uint, cause error) *Error {
	return &Error{
		Kind:     ErrPersistence,
		Entity:   entity,
		ID:       id,
		Message:  persistenceMessage,
		Severity: SeverityDanger,
		cause:    cause,
	}
}

// WithInput attaches the submitted raw fields to a classified error so the
// caller can echo them. Other errors are returned unchanged.
func WithInput(err error, in validation.RawFields) error {
	var se *Error
	if errors.As(err, &se) {
		se.Input = in.Clone()
	}
	return err
}

// classify turns anything that is not already an *Error into a persistence
// failure.
func classify(entity Entity, id uint, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return Persistence(entity, id, err)
}
