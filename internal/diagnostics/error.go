package diagnostics

import (
	"errors"
	"fmt"

	"go.starlark.net/syntax"
)

// DiagnosticError is a user-facing compile error with an optional source location.
type DiagnosticError struct {
	Code    ErrorCode
	Message string
	File    string
	Pos     syntax.Position // zero until an error context attaches one
}

func (e *DiagnosticError) Error() string {
	loc := e.Location()
	if loc == "" {
		return fmt.Sprintf("error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: error [%s]: %s", loc, e.Code, e.Message)
}

// Location renders "file:line:col", omitting the parts that are unknown.
func (e *DiagnosticError) Location() string {
	switch {
	case e.File != "" && e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d", e.File, e.Pos.Line, e.Pos.Col)
	case e.Pos.IsValid():
		return fmt.Sprintf("%d:%d", e.Pos.Line, e.Pos.Col)
	default:
		return e.File
	}
}

// HasLocation reports whether a position has been attached.
func (e *DiagnosticError) HasLocation() bool {
	return e.Pos.IsValid()
}

func NewError(code ErrorCode, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: msg}
}

func Errorf(code ErrorCode, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewErrorAt builds an error that is already located.
func NewErrorAt(code ErrorCode, file string, pos syntax.Position, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: msg, File: file, Pos: pos}
}

// AsDiagnostic unwraps err to a *DiagnosticError if there is one in its chain.
func AsDiagnostic(err error) (*DiagnosticError, bool) {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err is a diagnostic with the given code.
func HasCode(err error, code ErrorCode) bool {
	de, ok := AsDiagnostic(err)
	return ok && de.Code == code
}
