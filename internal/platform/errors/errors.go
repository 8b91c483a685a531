// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode defines supported error codes used across pipelines
// Values are stable; they are logged and recorded in the run ledger
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for recovered panics
	ErrorCodePanic

	// ErrorCodeUnavailable is for transient dependency errors where retry may succeed
	ErrorCodeUnavailable

	// ErrorCodeConfig is for missing or invalid run configuration
	ErrorCodeConfig

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for malformed record values (numbers, dates)
	ErrorCodeValidation

	// ErrorCodeJSON is for JSON encoding errors
	ErrorCodeJSON

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey is for unique constraint violations
	ErrorCodeDuplicateKey

	// ErrorCodeDB is for general database errors
	ErrorCodeDB

	// ErrorCodeSourceUnavailable is for transport, auth or non-2xx failures talking to a source
	ErrorCodeSourceUnavailable

	// ErrorCodeSourceSchema is for source responses missing expected structure
	ErrorCodeSourceSchema

	// ErrorCodeSchemaValidation is for file exports whose header does not match
	ErrorCodeSchemaValidation

	// ErrorCodeLoadFailure is for rejected batch writes
	ErrorCodeLoadFailure
)

var codeNames = [...]string{
	ErrorCodeUnknown:           "unknown",
	ErrorCodePanic:             "panic",
	ErrorCodeUnavailable:       "unavailable",
	ErrorCodeConfig:            "config",
	ErrorCodeInvalidArgument:   "invalid_argument",
	ErrorCodeValidation:        "validation",
	ErrorCodeJSON:              "json",
	ErrorCodeNotFound:          "not_found",
	ErrorCodeDuplicateKey:      "duplicate_key",
	ErrorCodeDB:                "db",
	ErrorCodeSourceUnavailable: "source_unavailable",
	ErrorCodeSourceSchema:      "source_schema",
	ErrorCodeSchemaValidation:  "schema_validation",
	ErrorCodeLoadFailure:       "load_failure",
}

// String returns the snake_case name of the code
func (c ErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// Process exit codes
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitConfig            = 2
	ExitSourceUnavailable = 3
	ExitSourceSchema      = 4
	ExitSchemaValidation  = 5
	ExitLoadFailure       = 6
)

// ExitCodeOf turns an ErrorCode into a process exit status
func ExitCodeOf(c ErrorCode) int {
	switch c {
	case ErrorCodeConfig, ErrorCodeInvalidArgument:
		return ExitConfig
	case ErrorCodeSourceUnavailable:
		return ExitSourceUnavailable
	case ErrorCodeSourceSchema, ErrorCodeValidation:
		return ExitSourceSchema
	case ErrorCodeSchemaValidation:
		return ExitSchemaValidation
	case ErrorCodeLoadFailure, ErrorCodeDB, ErrorCodeDuplicateKey:
		return ExitLoadFailure
	default:
		return ExitFailure
	}
}

// ExitCode returns the process exit status for err; ExitOK for nil
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return ExitCodeOf(CodeOf(err))
}

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field is optional (offending column or record field); op is optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.msg
	if e.op != "" {
		msg = e.op + ": " + msg
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", msg, e.orig)
	}
	return msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Sugar

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Validationf returns a record validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// Configf returns a configuration error
func Configf(format string, a ...any) error { return Newf(ErrorCodeConfig, format, a...) }

// SourceUnavailablef returns a source transport/auth error
func SourceUnavailablef(format string, a ...any) error {
	return Newf(ErrorCodeSourceUnavailable, format, a...)
}

// SourceSchemaf returns a source response-shape error
func SourceSchemaf(format string, a ...any) error { return Newf(ErrorCodeSourceSchema, format, a...) }

// SchemaValidationf returns a file header mismatch error
func SchemaValidationf(format string, a ...any) error {
	return Newf(ErrorCodeSchemaValidation, format, a...)
}

// Retry semantics

// Retryable reports whether a database error is transient, across the
// Postgres and MySQL drivers
func Retryable(err error) bool { return IsRetryable(err) || IsMySQLRetryable(err) }
