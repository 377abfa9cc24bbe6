package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The value doubles as the wire error code.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindForbidden          Kind = "FORBIDDEN"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidStatus      Kind = "INVALID_STATUS"
	KindInvalidTransition  Kind = "INVALID_TRANSITION"
	KindConflict           Kind = "CONFLICT"
	KindPayment            Kind = "PAYMENT_ERROR"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// Error is the single error type services return to handlers.
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or KindInternal for anything that is not a service error.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Err returns a validation error, or nil when no field failed.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Message: "Validation error", Details: f}
}

func ValidationError(field, message string) error {
	return FieldErrors{field: {message}}.Err()
}

func InvalidCredentials() error {
	return &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials", Details: "Email or password is incorrect"}
}

func Unauthorized(details string) error {
	return &Error{Kind: KindUnauthorized, Message: "Unauthorized", Details: details}
}

func Forbidden(details string) error {
	return &Error{Kind: KindForbidden, Message: "Forbidden", Details: details}
}

func NotFound(resource, details string) error {
	return &Error{Kind: KindNotFound, Message: resource + " not found", Details: details}
}

func InvalidStatus(message, details string) error {
	return &Error{Kind: KindInvalidStatus, Message: message, Details: details}
}

func InvalidTransition(from, to string) error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: "Invalid status transition",
		Details: fmt.Sprintf("Order cannot move from %s to %s", from, to),
	}
}

func Conflict(details string) error {
	return &Error{Kind: KindConflict, Message: "Conflicting update", Details: details}
}

func PaymentError(err error) error {
	return &Error{Kind: KindPayment, Message: "Payment gateway error", Details: err.Error(), Err: err}
}

// Internal wraps an infrastructure failure; the cause is logged, not sent to clients.
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
