// Package jsonrpc provides utilities for handling JSON-RPC 2.0 protocol
// messages. IDs are kept as raw JSON since callers may supply either string
// or numeric identifiers; a message without an id is a notification.
package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Version specifies the JSON-RPC protocol version
const Version = "2.0"

// MethodType represents a JSON-RPC method name
type MethodType string

// Request represents a JSON-RPC 2.0 request or notification.
// ID is absent for notifications.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  MethodType      `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no correlation id.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || bytes.Equal(r.ID, []byte("null"))
}

// Response represents a JSON-RPC 2.0 response.
// Either Result or Error must be set, but not both.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject represents a JSON-RPC 2.0 error object.
// Code must be a valid JSON-RPC error code.
// Message should be a short description of the error.
// Data is optional and can contain additional error information.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ConstructRequest creates a JSON-RPC request message.
// Returns an error if params cannot be marshaled.
func ConstructRequest(id json.RawMessage, method MethodType, params any) ([]byte, error) {
	p, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	req := Request{
		JSONRPC: Version,
		ID:      id,
		Method:  method,
		Params:  p,
	}
	return json.Marshal(req)
}

// ConstructNotification creates a JSON-RPC notification (no response expected).
// Returns an error if params cannot be marshaled.
func ConstructNotification(method MethodType, params any) ([]byte, error) {
	p, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	req := Request{
		JSONRPC: Version,
		Method:  method,
		Params:  p,
	}
	return json.Marshal(req)
}

// ConstructSuccessResponse creates a JSON-RPC response with a result.
// The result must be JSON-serializable.
func ConstructSuccessResponse(id json.RawMessage, result any) ([]byte, error) {
	resp := Response{
		JSONRPC: Version,
		ID:      id,
		Result:  result,
	}
	return json.Marshal(resp)
}

// ConstructErrorResponse creates a JSON-RPC error response.
// The data parameter is optional and must be JSON-serializable if provided.
func ConstructErrorResponse(id json.RawMessage, code int, message string, data any) ([]byte, error) {
	resp := Response{
		JSONRPC: Version,
		ID:      id,
		Error: &ErrorObject{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
	return json.Marshal(resp)
}

// ParseRequest unmarshals a JSON-RPC request or notification.
// Returns an error if the request is invalid or missing required fields.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if req.JSONRPC != Version || req.Method == "" {
		return nil, errors.New("invalid JSON-RPC request")
	}
	return &req, nil
}

// ParseResponse unmarshals a JSON-RPC response.
// Returns an error if the response is invalid.
func ParseResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.JSONRPC != Version {
		return nil, errors.New("invalid JSON-RPC response")
	}
	if resp.Result == nil && resp.Error == nil {
		return nil, errors.New("response must have either result or error")
	}
	return &resp, nil
}

// Standard JSON-RPC 2.0 error codes
const (
	ErrCodeParseError     = -32700 // Invalid JSON was received
	ErrCodeInvalidRequest = -32600 // The JSON sent is not a valid Request object
	ErrCodeMethodNotFound = -32601 // The method does not exist
	ErrCodeInvalidParams  = -32602 // Invalid method parameter(s)
	ErrCodeInternalError  = -32603 // Internal JSON-RPC error
)

// FormatErrorMessage returns a user-friendly error message from an error.
// Returns an empty string if err is nil.
func FormatErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("JSON-RPC error: %s", err.Error())
}
