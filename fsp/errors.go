package fsp

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrUnknownField     ErrorKind = "unknown_field"
	ErrEmptyField       ErrorKind = "empty_field"
	ErrMatchType        ErrorKind = "match_type"
	ErrInvalidParameter ErrorKind = "invalid_parameter"
	ErrSQL              ErrorKind = "sql"
	ErrIO               ErrorKind = "io"
	ErrConfig           ErrorKind = "config"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Field != "" {
		base = fmt.Sprintf("%s (field=%s)", base, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// UnknownFieldError reports a parameter naming a field that has no
// registered factory. It is a client input error.
func UnknownFieldError(field, purpose string) *Error {
	return &Error{Kind: ErrUnknownField, Message: fmt.Sprintf("field is not valid for %s", purpose), Field: field}
}

func EmptyFieldNameError() *Error {
	return &Error{Kind: ErrEmptyField, Message: "field name must not be empty"}
}

func UnrecognizedMatchTypeError(mt StringMatchType) *Error {
	return &Error{Kind: ErrMatchType, Message: fmt.Sprintf("found unknown match type %d", int(mt))}
}

func InvalidParameterError(field, msg string) *Error {
	return &Error{Kind: ErrInvalidParameter, Message: msg, Field: field}
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
