// Package pqerr provides structured error types for the pqtree package.
//
// This package defines error codes and types that enable:
//   - Consistent classification of the three reduction-failure kinds
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Usage
//
//	if !tree.Reduce(set) {
//	    if pqerr.Is(tree.LastError(), pqerr.ErrUnknownLeaf) {
//	        // a requested leaf value isn't in the tree
//	    }
//	}
package pqerr

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the two recoverable reduction-failure kinds of the
// Booth-Lueker algorithm. The third kind, an internal invariant
// violation, is reported as a panic rather than a Code; see [New] and
// the package doc for why.
const (
	// ErrInconsistentConstraint means the requested leaf set cannot be
	// made consecutive given constraints already folded into the tree.
	ErrInconsistentConstraint Code = "INCONSISTENT_CONSTRAINT"
	// ErrUnknownLeaf means a value in the requested set has no
	// corresponding leaf in the tree.
	ErrUnknownLeaf Code = "UNKNOWN_LEAF"
	// ErrInternal marks an invariant violation. It is the code of the
	// pqtree package's panic values, which Tree.SafeReduce recovers and
	// reports through Tree.LastError; Tree.Reduce also reports it there
	// when called on a tree left invalid by an earlier failure.
	ErrInternal Code = "INTERNAL_INVARIANT_VIOLATION"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
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

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
