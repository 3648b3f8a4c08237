package bridge

import (
	"errors"
	"fmt"
)

// Operations reported in Error.Op.
const (
	OpConstruct = "construct"
	OpHandle    = "handle"
	OpProject   = "project"
)

// Common bridge error types
var (
	ErrNilRequest      = errors.New("nil inbound request")
	ErrUnsupportedBody = errors.New("unsupported request body")
	ErrNilResponse     = errors.New("handler returned no response")
	ErrInvalidStatus   = errors.New("invalid response status code")
	ErrBodyNotAllowed  = errors.New("response status does not allow a body")
	ErrSinkFinalized   = errors.New("sink already finalized")
	ErrStatusNotSet    = errors.New("sink status not set")
)

// Error represents a failed bridge invocation with the stage it failed in
type Error struct {
	Op     string // Stage that failed: construct, handle or project
	Method string // Inbound request method
	URL    string // Inbound path and query
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	if e.Method != "" || e.URL != "" {
		return fmt.Sprintf("bridge %s failed for %s %s: %v", e.Op, e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("bridge %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, in *InboundRequest, err error) *Error {
	e := &Error{Op: op, Err: err}
	if in != nil {
		e.Method = in.Method
		e.URL = in.URL
	}
	return e
}

// IsConstructionError returns true if err happened while building the request value
func IsConstructionError(err error) bool {
	return isOp(err, OpConstruct)
}

// IsHandlerError returns true if err was returned by the message handler
func IsHandlerError(err error) bool {
	return isOp(err, OpHandle)
}

// IsProjectionError returns true if err happened while writing to the sink
func IsProjectionError(err error) bool {
	return isOp(err, OpProject)
}

func isOp(err error, op string) bool {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.Op == op
	}
	return false
}
