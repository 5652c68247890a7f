// Package crud provides the generic entity service pipeline shared by every
// domain module: schema validation, permission checks, lifecycle hooks,
// persistence calls and structured logging, with a fixed coded error
// taxonomy.
package crud

import (
	"errors"
	"fmt"
)

// Code is one of the fixed error categories every failure maps to.
type Code string

const (
	// CodeValidation marks input that failed schema validation.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeNotFound marks a target id that does not resolve to a live record.
	CodeNotFound Code = "NOT_FOUND"
	// CodeForbidden marks an actor that failed the operation's permission rule.
	CodeForbidden Code = "FORBIDDEN"
	// CodeUnauthorized marks an absent actor argument, a caller-side defect.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeInternal marks unexpected hook or persistence failures.
	CodeInternal Code = "INTERNAL_ERROR"
)

// Error is the coded service error returned by every failed operation.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for diagnostics.
func (e *Error) Unwrap() error {
	return e.cause
}

// Validationf builds a VALIDATION_ERROR.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NOT_FOUND error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbiddenf builds a FORBIDDEN error.
func Forbiddenf(format string, args ...any) *Error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

// Unauthorizedf builds an UNAUTHORIZED error.
func Unauthorizedf(format string, args ...any) *Error {
	return &Error{Code: CodeUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Internalf builds an INTERNAL_ERROR wrapping the cause. The cause message
// is preserved for diagnostics while the code stays normalized.
func Internalf(cause error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &Error{Code: CodeInternal, Message: msg, cause: cause}
}

// AsError extracts a coded error from err's chain.
func AsError(err error) (*Error, bool) {
	var coded *Error
	if errors.As(err, &coded) {
		return coded, true
	}
	return nil, false
}

// CodeOf returns the code carried by err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	if coded, ok := AsError(err); ok {
		return coded.Code
	}
	return CodeInternal
}
