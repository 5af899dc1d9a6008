// Package errors carries machine-readable codes alongside ordinary Go errors
// so the store, the HTTP layer and the greeting can agree on failure kinds
// without sharing sentinel values.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies a failure.
type Code string

const (
	CodeUnknown Code = "unknown"

	// Raised by the message service and its store.
	CodeInvalidPayload Code = "invalid_payload"
	CodeNotFound       Code = "not_found"
	CodeStorageFailed  Code = "storage_failed"
	CodeNetworkFailure Code = "network_failure"

	// Raised while preparing a greeting.
	CodeInvalidScript      Code = "invalid_script"
	CodeConfigurationError Code = "configuration_error"
)

// Caller reports whether the code describes a mistake in the request itself,
// so its message is safe to hand back to whoever made it.
func (c Code) Caller() bool {
	switch c {
	case CodeInvalidPayload, CodeNotFound, CodeInvalidScript, CodeConfigurationError:
		return true
	}
	return false
}

// Error pairs a Code with a human message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e Error) Unwrap() error {
	return e.Err
}

// New builds an Error. err may be nil.
func New(code Code, msg string, err error) Error {
	return Error{Code: code, Message: msg, Err: err}
}

// Wrap annotates err with the operation that failed, keeping err as the
// cause. A nil err yields nil.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return Error{Code: code, Message: fmt.Sprintf("%s: %v", op, err), Err: err}
}

// CodeOf returns the code of the first Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode is shorthand for CodeOf(err) == code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
