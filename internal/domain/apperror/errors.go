// Package apperror carries the typed error taxonomy shared by the identity core.
//
// Every error exposes a stable Code plus a human-readable Message. Cause is kept
// for logs only and never rendered to callers.
package apperror

import (
	"errors"
	"strings"
)

// FieldError is a single violated rule on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    Code   `json:"rule"`
	Message string `json:"message"`
}

func (f *FieldError) Error() string {
	return f.Field + ": " + f.Message
}

// Error is the domain error type.
type Error struct {
	Code    Code
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for i := range e.Fields {
		parts = append(parts, e.Fields[i].Error())
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by code. A validation error also matches any field rule it carries,
// so errors.Is(err, ErrReservedNickname) holds for an aggregated failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	for _, f := range e.Fields {
		if f.Rule == t.Code {
			return true
		}
	}
	return false
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that keeps cause for logging.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation aggregates per-field failures.
func Validation(fields []FieldError) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

// Field builds a field-level rule violation.
func Field(field string, rule Code, message string) *FieldError {
	return &FieldError{Field: field, Rule: rule, Message: message}
}

// CodeOf extracts the code of err, CodeInternal when err is not a domain error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// FieldRule returns the rule violated on field, if any.
func FieldRule(err error, field string) (Code, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Rule, true
		}
	}
	return "", false
}

var (
	ErrEmptySubmission    = New(CodeEmptySubmission, "at least one field must be provided for update")
	ErrReservedNickname   = New(CodeReservedNickname, "this nickname is reserved and cannot be used")
	ErrDomainNotAccepted  = New(CodeDomainNotAccepted, "email domain not accepted")
	ErrInvalidCredentials = New(CodeInvalidCredentials, "incorrect email or password")
	ErrEmailNotVerified   = New(CodeEmailNotVerified, "incorrect email or password")
	ErrAccountLocked      = New(CodeAccountLocked, "account locked due to too many failed login attempts")
	ErrTokenInvalid       = New(CodeTokenInvalid, "could not validate credentials")
	ErrTokenExpired       = New(CodeTokenExpired, "token has expired")
	ErrForbidden          = New(CodeForbidden, "operation not permitted")
	ErrNotFound           = New(CodeNotFound, "user not found")
	ErrDuplicateEmail     = New(CodeDuplicateEmail, "email already exists")
	ErrDuplicateNickname  = New(CodeDuplicateNickname, "nickname already exists")
)
