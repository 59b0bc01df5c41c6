package mcpjsonrpc

// Based on JSON-RPC 2.0 Specification: https://www.jsonrpc.org/specification

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// Version is the only protocol version this package speaks.
const Version = mcp.JSONRPC_VERSION

// Request represents a JSON-RPC request or notification object.
// ID is kept as raw JSON so that an absent id (notification) and an explicit
// null id (a call that must still be answered) stay distinguishable.
type Request struct {
	Version string          // Not validated on input
	ID      json.RawMessage // nil when the "id" member is absent
	Method  string          // Method name; non-string methods hold their JSON text
	Params  json.RawMessage // nil when the "params" member is absent
}

// IsNotification reports whether the request carries no id and therefore
// must never be answered.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Response represents a JSON-RPC response object.
// Field order matters: responses are compared byte for byte by clients.
type Response struct {
	Version string          `json:"jsonrpc"`          // MUST be "2.0"
	ID      json.RawMessage `json:"id"`               // Echoed request id, or null if it could not be determined
	Result  interface{}     `json:"result,omitempty"` // Required on success
	Error   *Error          `json:"error,omitempty"`  // Required on error
}

// Error represents a JSON-RPC error object.
type Error struct {
	Code    int         `json:"code"`           // Error code
	Message string      `json:"message"`        // Error message
	Data    interface{} `json:"data,omitempty"` // Additional data about the error
}

func (e *Error) Error() string {
	return e.Message
}

// Error codes used on the wire.
const (
	CodeParseError     = mcp.PARSE_ERROR
	CodeInvalidRequest = mcp.INVALID_REQUEST
	CodeMethodNotFound = mcp.METHOD_NOT_FOUND
	CodeInvalidParams  = mcp.INVALID_PARAMS
	CodeInternalError  = mcp.INTERNAL_ERROR
)

// NewResult builds a success response for the given request id.
func NewResult(id json.RawMessage, result interface{}) *Response {
	return &Response{Version: Version, ID: id, Result: result}
}

// NewError builds an error response for the given request id.
func NewError(id json.RawMessage, code int, message string) *Response {
	return &Response{Version: Version, ID: id, Error: &Error{Code: code, Message: message}}
}
