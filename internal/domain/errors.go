package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an id did not resolve to a record.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidTransition indicates a workflow operation requested from an illegal state.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrConstraintViolation indicates a uniqueness or value constraint was rejected before mutation.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrForbidden indicates the caller may not perform a workflow transition.
	ErrForbidden = errors.New("operation not permitted")
	// ErrPersistence indicates a mirror file rewrite failed.
	ErrPersistence = errors.New("persistence failure")
)

// NotFound returns an ErrNotFound naming the entity kind and id.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

// Forbidden returns an ErrForbidden describing who may perform op.
func Forbidden(op, allowed string) error {
	return fmt.Errorf("%s: only %s may do this: %w", op, allowed, ErrForbidden)
}

// TransitionError names the offending state of a rejected workflow operation.
type TransitionError struct {
	Entity string
	ID     string
	Op     string
	From   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s %s %s: status is %q", e.Op, e.Entity, e.ID, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ConstraintError describes a rejected write.
type ConstraintError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ConstraintError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Reason)
}

func (e *ConstraintError) Unwrap() error { return ErrConstraintViolation }

// Violation builds a *ConstraintError.
func Violation(entity, field, reason string) error {
	return &ConstraintError{Entity: entity, Field: field, Reason: reason}
}
