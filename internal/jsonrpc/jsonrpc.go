// Package jsonrpc implements the JSON-RPC 2.0 wire codec used by the agent
// server and client: typed request/response/error values, request ids which
// round-trip string and number identity exactly, and batch encoding.
// The codec is transport independent.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// JSON-RPC 2.0 protocol constants
const (
	Version = "2.0"

	// HTTP headers
	ContentTypeJSON = "application/json"

	// Method name of the message/send protocol call.
	MethodMessageSend = "message/send"
)

// Reserved JSON-RPC 2.0 error codes. Application-specific codes must stay
// outside the -32768..-32000 range.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewError creates an Error with the provided code and message.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithData returns a copy of the error carrying structured detail.
func (e *Error) WithData(data any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Data: data}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Data != nil {
		if data, err := json.Marshal(e.Data); err == nil {
			return fmt.Sprintf("jsonrpc error %d: %s (data: %s)", e.Code, e.Message, data)
		}
	}
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}
