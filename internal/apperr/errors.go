// Package apperr defines the error taxonomy shared by the service and
// handler layers. Services return these; handlers translate them to HTTP
// statuses. Anything that is not one of these types is treated as an
// internal error and never shown to the caller verbatim.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-range input. It is never
// retried and always surfaced to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a named field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PermissionError reports that the actor lacks the capability or membership
// required for an operation.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string { return e.Reason }

// Permission builds a PermissionError.
func Permission(reason string) error {
	return &PermissionError{Reason: reason}
}

// NotFoundError reports an absent entity. Entities outside the actor's
// visible set report the same error; the two cases are indistinguishable
// on purpose.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// NotFound builds a NotFoundError for the named entity.
func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// ConflictError reports a lost race on a storage uniqueness constraint.
// Services translate it into a user-facing ValidationError before it
// reaches a handler.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// Conflict builds a ConflictError.
func Conflict(reason string) error {
	return &ConflictError{Reason: reason}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsPermission(err error) bool {
	var p *PermissionError
	return errors.As(err, &p)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
