// Package mcperrors defines the internal typed errors the dispatcher uses
// to reach the JSON-RPC wire error plane (pkg/protocol.Error) without
// string-sniffing. A handler returns one of these, and the dispatcher maps
// it to a wire code via Code(); any other error is treated as an internal
// error. Tool-level failures never flow through this package — those are
// protocol.ToolCallResult{IsError: true} values, the result plane, not the
// error plane.
package mcperrors

import (
	"fmt"

	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// CodedError is implemented by every error in this package so the
// dispatcher can recover a JSON-RPC error code from an arbitrary error
// value with a single type assertion.
type CodedError interface {
	error
	Code() int
}

// ParseError reports malformed JSON that couldn't even be classified as a
// request, notification, or response.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %v", e.Err) }
func (e *ParseError) Code() int     { return protocol.ErrParse }
func (e *ParseError) Unwrap() error { return e.Err }

// InvalidRequestError reports a structurally valid JSON-RPC message that
// is nonetheless not a valid request in context — e.g. any method call
// serviced before initialize completes.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string { return fmt.Sprintf("invalid request: %s", e.Reason) }
func (e *InvalidRequestError) Code() int     { return protocol.ErrInvalidRequest }

// MethodNotFoundError reports a method name the dispatcher has no handler
// for.
type MethodNotFoundError struct {
	Method string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method not found: %s", e.Method)
}
func (e *MethodNotFoundError) Code() int { return protocol.ErrMethodNotFound }

// InvalidParamsError reports params that failed to decode or validate
// against the target handler's expected shape.
type InvalidParamsError struct {
	Reason string
}

func (e *InvalidParamsError) Error() string { return fmt.Sprintf("invalid params: %s", e.Reason) }
func (e *InvalidParamsError) Code() int     { return protocol.ErrInvalidParams }

// InternalError wraps an unexpected failure inside a handler that isn't
// attributable to the caller's request.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string { return fmt.Sprintf("internal error: %v", e.Err) }
func (e *InternalError) Code() int     { return protocol.ErrInternal }
func (e *InternalError) Unwrap() error { return e.Err }

// ServerError is an implementation-specific failure (e.g. session
// eviction, transport closed mid-call) reported with a code in the
// reserved -32000..-32099 range.
type ServerError struct {
	Offset  int // 0..99, subtracted from protocol.ErrServerBase
	Message string
}

func (e *ServerError) Error() string { return fmt.Sprintf("server error: %s", e.Message) }
func (e *ServerError) Code() int     { return protocol.ErrServerBase - e.Offset }

// ToWireError converts any error into a protocol.Error, using its Code()
// if it implements CodedError, or protocol.ErrInternal otherwise.
func ToWireError(err error) *protocol.Error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(CodedError); ok {
		return &protocol.Error{Code: ce.Code(), Message: ce.Error()}
	}
	return &protocol.Error{Code: protocol.ErrInternal, Message: err.Error()}
}
