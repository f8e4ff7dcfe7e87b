package resource

import (
	"errors"
	"fmt"
)

// Error is returned by the Router when an identifier cannot be routed or an
// operation is not available for the identifier's kind.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the Router operation that failed (query, insert, ...).
	Op string

	// URI is the identifier as given by the caller.
	URI string

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes routing errors.
type ErrorCode string

const (
	// ErrCodeUnrecognized indicates the identifier matches no route.
	ErrCodeUnrecognized ErrorCode = "UNRECOGNIZED_IDENTIFIER"

	// ErrCodeUnsupported indicates the operation is not valid for the
	// identifier's kind.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_OPERATION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s, uri=%s)", e.Code, e.Message, e.Op, e.URI)
	}
	return fmt.Sprintf("%s: %s (uri=%s)", e.Code, e.Message, e.URI)
}

// IsUnrecognized returns true if err is an UNRECOGNIZED_IDENTIFIER error.
// Uses errors.As to handle wrapped errors.
func IsUnrecognized(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnrecognized
	}
	return false
}

// IsUnsupported returns true if err is an UNSUPPORTED_OPERATION error.
func IsUnsupported(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnsupported
	}
	return false
}

func unrecognized(uri string) *Error {
	return &Error{Code: ErrCodeUnrecognized, URI: uri, Message: "unknown identifier"}
}

// withOp stamps op onto a routing error.
func withOp(err error, op string) error {
	var re *Error
	if errors.As(err, &re) && re.Op == "" {
		cp := *re
		cp.Op = op
		return &cp
	}
	return err
}
