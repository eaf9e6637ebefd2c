package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse: an expected pattern or field is absent from a response body.
	ErrParse = errors.New("parse error")

	// ErrTransport: network, TLS or HTTP status failure.
	ErrTransport = errors.New("transport error")

	// ErrSessionTerminated: the long-poll endpoint returned a non-zero retcode.
	ErrSessionTerminated = errors.New("session terminated")

	// ErrPrecondition: an authenticated call was attempted with unset credentials.
	ErrPrecondition = errors.New("precondition failed")

	// Login flow outcomes.
	ErrLoginTimeout = errors.New("login confirmation timed out")
	ErrQRExpired    = errors.New("qr code expired")

	// ErrRejected: the server answered with a non-zero BaseResponse.Ret.
	ErrRejected = errors.New("request rejected by server")
)

// ParseError reports which field could not be extracted.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("parse %s: pattern not found", e.Field)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// NewParseError builds a ParseError for field, optionally wrapping a decoder error.
func NewParseError(field string, err error) *ParseError {
	return &ParseError{Field: field, Err: err}
}

// TransportError wraps a failed HTTP exchange.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// SessionTerminatedError carries the status pair that ended the session.
type SessionTerminatedError struct {
	Retcode  int
	Selector int
}

func (e *SessionTerminatedError) Error() string {
	return fmt.Sprintf("session terminated by server (retcode=%d, selector=%d)", e.Retcode, e.Selector)
}

func (e *SessionTerminatedError) Is(target error) bool { return target == ErrSessionTerminated }

// PreconditionError lists the credential fields that were empty.
type PreconditionError struct {
	Missing []string
}

func (e *PreconditionError) Error() string {
	return "missing credentials: " + strings.Join(e.Missing, ", ")
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }
