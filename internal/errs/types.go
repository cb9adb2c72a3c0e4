package errs

import (
	"errors"
	"fmt"
)

// Code is a coarse, machine-friendly category for a StoreError.
type Code string

const (
	CodeUnknown           Code = "UNKNOWN"
	CodeUnavailable       Code = "UNAVAILABLE"
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeCanceled          Code = "CANCELED"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConstraint        Code = "CONSTRAINT_VIOLATION"
	CodeInvalidStatement  Code = "INVALID_STATEMENT"
	CodeUndefinedRelation Code = "UNDEFINED_RELATION"
)

// StoreError is any failure at the connection or query level.
//
// Op names the store operation ("create", "list", ...). Message is the
// driver's own message and is what callers see in failure payloads.
type StoreError struct {
	Op      string
	Code    Code
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches any *StoreError target with an empty Code, or one with the same Code.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// New builds a StoreError around cause. Message defaults to cause's text.
func New(op string, code Code, cause error) *StoreError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &StoreError{Op: op, Code: code, Message: msg, Err: cause}
}

// WithOp returns a copy of e tagged with op.
func (e *StoreError) WithOp(op string) *StoreError {
	return &StoreError{
		Op:      op,
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
	}
}

// As extracts the *StoreError from err's chain.
func As(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf reports err's Code, or CodeUnknown when err is not a StoreError.
func CodeOf(err error) Code {
	if se, ok := As(err); ok {
		return se.Code
	}
	return CodeUnknown
}
