package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
// It is deliberately also returned when a resource exists but belongs to a
// different tenant, so callers cannot probe for existence across tenants.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of the
// resource, e.g. the duplicate-payment submission heuristic fired.
var ErrConflict = errors.New("conflict with current resource state")

// ErrImmutable indicates a mutation was attempted on a terminal or frozen entity.
var ErrImmutable = errors.New("entity is immutable")

// ErrForbidden indicates the actor lacks the required role for the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// InvalidTransitionError reports a status change that is not an edge in the
// transition table for the entity type. It carries the allowed set for diagnostics.
type InvalidTransitionError struct {
	EntityType string
	From       string
	To         string
	Allowed    []string
}

func (e *InvalidTransitionError) Error() string {
	allowed := "none"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("invalid %s transition from %q to %q (allowed: %s)", e.EntityType, e.From, e.To, allowed)
}

// NewInvalidTransitionError builds an InvalidTransitionError for the given edge attempt.
func NewInvalidTransitionError(entityType, from, to string, allowed []string) *InvalidTransitionError {
	return &InvalidTransitionError{EntityType: entityType, From: from, To: to, Allowed: allowed}
}

// PreconditionFailedError reports a guard predicate failure. The transition edge
// itself was legal; some runtime condition of the entity was not met.
type PreconditionFailedError struct {
	Reason string
}

func (e *PreconditionFailedError) Error() string {
	return "precondition failed: " + e.Reason
}

// NewPreconditionFailedError builds a PreconditionFailedError with the given reason.
func NewPreconditionFailedError(reason string) *PreconditionFailedError {
	return &PreconditionFailedError{Reason: reason}
}

// AppError wraps lower-level errors with an HTTP-ish code and a message.
// Repositories use it to wrap driver errors without leaking SQL details upward.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that matches errors.Is(err, ErrValidation).
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}

// NewConflictError creates an AppError that matches errors.Is(err, ErrConflict).
func NewConflictError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrConflict}
}

// NewImmutableEntityError creates an AppError that matches errors.Is(err, ErrImmutable).
func NewImmutableEntityError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrImmutable}
}

// NewInternalServerError creates an AppError that matches errors.Is(err, ErrInternal).
func NewInternalServerError(message string) *AppError {
	return &AppError{Code: 500, Message: message, Err: ErrInternal}
}
