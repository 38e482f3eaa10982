// Package errors defines the coded errors returned throughout archscape.
//
// Every failure carries a [Code], so callers branch on what went wrong
// instead of matching message text. The codes raised while declaring the
// architecture model are:
//
//   - DUPLICATE_IDENTITY: a name is already taken within its scope
//   - UNKNOWN_ELEMENT: a reference is zero, dangling or from another model
//   - VIEW_ALREADY_BUILT: a view builder was touched after Build
//   - MODEL_SEALED: the model was changed after views were derived from it
//
// The others describe configuration, rendering and publishing failures.
//
//	err := errors.New(errors.ErrCodeDuplicateIdentity, "container %q already exists", name)
//	if errors.Is(err, errors.ErrCodeDuplicateIdentity) {
//	    ...
//	}
//	err = errors.Wrap(errors.ErrCodeNetwork, err, "upload workspace %d", id)
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code classifies an error.
type Code string

const (
	ErrCodeDuplicateIdentity Code = "DUPLICATE_IDENTITY"
	ErrCodeUnknownElement    Code = "UNKNOWN_ELEMENT"
	ErrCodeViewAlreadyBuilt  Code = "VIEW_ALREADY_BUILT"
	ErrCodeModelSealed       Code = "MODEL_SEALED"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeUnsupported   Code = "UNSUPPORTED"

	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	// ErrCodeInternal is reported for errors that carry no code.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// HTTPStatus maps c to the status the workspace server answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error with a [Code] and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain has code. The search
// continues below outer *Error values, so a DUPLICATE_IDENTITY raised by a
// provider is still found after the workspace build wrapped it.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the outermost code in err's chain, ErrCodeInternal for an
// error without one and "" for nil.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// UserMessage renders err without code prefixes, for CLI and HTTP output.
// Context added by fmt.Errorf wrapping is kept.
func UserMessage(err error) string {
	msg := err.Error()
	var e *Error
	for errors.As(err, &e) {
		msg = strings.Replace(msg, string(e.Code)+": ", "", 1)
		err = e.Cause
	}
	return msg
}
