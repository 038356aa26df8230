// Package apperror defines the fixed set of error kinds that cross the service
// boundary. Transport code maps every kind to exactly one HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"sort"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUnavailable  Kind = "unavailable"
	KindInternal     Kind = "internal"
)

// FieldMessage is the key used for errors that are not tied to an input field.
const FieldMessage = "message"

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string][]string
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

// FieldErrors returns the field-keyed messages, falling back to the generic
// message under FieldMessage.
func (e *Error) FieldErrors() map[string][]string {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	return map[string][]string{FieldMessage: {e.Message}}
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(fields map[string][]string) *Error {
	message := "validation failed"
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > 0 && len(fields[keys[0]]) > 0 {
		message = fields[keys[0]][0]
	}
	return &Error{Kind: KindValidation, Code: "validation_failed", Message: message, Fields: fields}
}

func FieldInvalid(field, message string) *Error {
	return Validation(map[string][]string{field: {message}})
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

// ConflictField reports a conflict that the client should show next to an input.
func ConflictField(code, field, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message, Fields: map[string][]string{field: {message}}}
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, "unauthorized", message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, "forbidden", message)
}

func Unavailable(code, message string, cause error) *Error {
	return &Error{Kind: KindUnavailable, Code: code, Message: message, Err: cause}
}

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: "internal server error", Err: cause}
}

// From returns err as an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
