package cli

import (
	"errors"

	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/resource"
)

// CLI error codes.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Config load or validation failed
	ErrCodeDatabase     = "E003" // Database could not be opened
	ErrCodeUsage        = "E004" // Bad arguments or flag values
	ErrCodeFixtures     = "E005" // Fixture file could not be read
	ErrCodeUnrecognized = "E101" // Identifier matches no route
	ErrCodeUnsupported  = "E102" // Operation not valid for identifier
	ErrCodeInvalidField = "E201" // Payload failed validation
	ErrCodeNotFound     = "E202" // No product with that id
	ErrCodeNotStored    = "E301" // Store rejected the write
)

// report writes an error through the formatter and returns the matching
// ExitError.
func report(formatter *OutputFormatter, exitCode int, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return &ExitError{Code: exitCode, Message: code + ": " + message, Reported: true}
}

// reportRouterError classifies an error returned by the Router.
func reportRouterError(formatter *OutputFormatter, err error) error {
	var ve *catalog.ValidationError
	switch {
	case errors.As(err, &ve):
		return report(formatter, ExitFailure, ErrCodeInvalidField, ve.Error(), map[string]string{"field": string(ve.Field)})
	case resource.IsUnrecognized(err):
		return report(formatter, ExitCommandError, ErrCodeUnrecognized, err.Error(), nil)
	case resource.IsUnsupported(err):
		return report(formatter, ExitCommandError, ErrCodeUnsupported, err.Error(), nil)
	default:
		return report(formatter, ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
}
