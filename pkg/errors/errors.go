// Package errors defines the coded errors every graphtext surface reports.
//
// Parsing graph text fails with exactly one of six codes, and each carries
// a message meant to be shown to the user unchanged:
//
//	PARSE_ERROR              a segment is not an integer
//	EMPTY_INPUT              no lines after trimming
//	MALFORMED_HEADER         first line is not "nodes edges"
//	EDGE_COUNT_MISMATCH      declared edge count != supplied edge lines
//	INVALID_EDGE_DEFINITION  edge line with fewer than 2 or more than 3 integers
//	EDGE_OUT_OF_RANGE        edge endpoint outside [base, base+nodes-1]
//
// The CLI, the editor and the HTTP API print such errors with [Display];
// the API also maps the code to a status. The other codes belong to the
// layers around the parser.
//
//	if errors.Is(err, errors.ErrCodeEdgeOutOfRange) {
//	    fmt.Println(errors.Display(err)) // Error: Some edges' source or destination are invalid: ...
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	ErrCodeParse                 Code = "PARSE_ERROR"
	ErrCodeEmptyInput            Code = "EMPTY_INPUT"
	ErrCodeMalformedHeader       Code = "MALFORMED_HEADER"
	ErrCodeEdgeCountMismatch     Code = "EDGE_COUNT_MISMATCH"
	ErrCodeInvalidEdgeDefinition Code = "INVALID_EDGE_DEFINITION"
	ErrCodeEdgeOutOfRange        Code = "EDGE_OUT_OF_RANGE"
)

const (
	// Request and option validation.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidEngine Code = "INVALID_ENGINE"

	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a user-facing Message and an optional Cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message", plus ": cause" when one is set. Use
// [Display] for what users see.
func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause that stays reachable through errors.Is and
// errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code and cause from an *Error. Other errors are
// returned as their Error() text.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsGraphTextError reports whether err carries one of the six parser codes.
func IsGraphTextError(err error) bool {
	switch GetCode(err) {
	case ErrCodeParse, ErrCodeEmptyInput, ErrCodeMalformedHeader,
		ErrCodeEdgeCountMismatch, ErrCodeInvalidEdgeDefinition, ErrCodeEdgeOutOfRange:
		return true
	}
	return false
}

// Display formats err as the drawing page shows it: "Error: <message>".
// Nil displays as "", which clears the error area.
func Display(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + UserMessage(err)
}
