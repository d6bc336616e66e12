// Package patch errors: every failure the engine can surface carries a
// machine-readable code plus enough location detail for the caller to
// correct the request and retry.
package patch

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies an engine failure.
type Code string

const (
	CodePathTraversal        Code = "path_traversal"
	CodeIO                   Code = "io_error"
	CodeEncoding             Code = "encoding_error"
	CodeInvalidPatch         Code = "invalid_patch"
	CodeLineOutOfRange       Code = "line_out_of_range"
	CodeOccurrenceOutOfRange Code = "occurrence_out_of_range"
	CodeNotFound             Code = "not_found"
	CodeAmbiguous            Code = "ambiguous"
	CodeBackupFailure        Code = "backup_failure"
	CodeBusy                 Code = "busy"
)

// Error is the typed failure returned by the engine and its matchers.
//
// PatchIndex is the 0-based position of the offending patch in the
// request, or -1 when the failure is not tied to a single patch.
// For CodeAmbiguous, Count holds the number of candidates and Lines
// their 1-based starting line numbers in document order.
type Error struct {
	Code       Code
	PatchIndex int
	Message    string
	Count      int
	Lines      []int
	Cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.PatchIndex >= 0 {
		fmt.Fprintf(&b, "patch %d: ", e.PatchIndex+1)
	}
	b.WriteString(e.Message)
	if e.Code == CodeAmbiguous && len(e.Lines) > 0 {
		fmt.Fprintf(&b, " (candidates start at lines %s)", joinInts(e.Lines))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// newError creates an Error not yet attributed to a patch.
func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, PatchIndex: -1, Message: fmt.Sprintf(format, args...)}
}

// wrapError attaches a cause to a new Error.
func wrapError(code Code, cause error, format string, args ...interface{}) *Error {
	e := newError(code, format, args...)
	e.Cause = cause
	return e
}

// IsCode reports whether err is (or wraps) an *Error with the given code.
func IsCode(err error, code Code) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == code
}

// AsError unwraps err to an *Error if possible.
func AsError(err error) (*Error, bool) {
	var pe *Error
	ok := errors.As(err, &pe)
	return pe, ok
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
