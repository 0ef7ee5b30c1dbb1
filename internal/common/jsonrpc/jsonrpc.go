package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Helper functions to deal with JSON-RPC 2.0 requests and responses

// JSON-RPC version
const Version = "2.0"

type MethodType string

// Error codes. The -32768..-32000 range is reserved by the spec; the
// application codes below it are part of the public API contract.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeServerError    = -32000
	CodeNotFound       = -32001
	CodeAlreadyExists  = -32002
)

// Request represents a JSON-RPC 2.0 request or notification. ID and Params
// are kept raw: the spec allows string, number, or null IDs, and params are
// decoded per method.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  MethodType      `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no ID.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// Response represents a JSON-RPC 2.0 response
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject represents a JSON-RPC 2.0 error object
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *ErrorObject) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// ConstructRequest creates a JSON-RPC request message
func ConstructRequest(id string, method MethodType, params any) ([]byte, error) {
	var p json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		p = b
	}
	rawID, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	req := Request{
		JSONRPC: Version,
		ID:      rawID,
		Method:  method,
		Params:  p,
	}
	return json.Marshal(req)
}

// ConstructNotification creates a JSON-RPC notification (no response expected)
func ConstructNotification(method MethodType, params any) ([]byte, error) {
	var p json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		p = b
	}
	req := Request{
		JSONRPC: Version,
		Method:  method,
		Params:  p,
	}
	return json.Marshal(req)
}

// ConstructSuccessResponse creates a JSON-RPC response with a result
func ConstructSuccessResponse(id json.RawMessage, result any) ([]byte, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	resp := Response{
		JSONRPC: Version,
		ID:      normalizeID(id),
		Result:  raw,
	}
	return json.Marshal(resp)
}

// ConstructErrorResponse creates a JSON-RPC error response
func ConstructErrorResponse(id json.RawMessage, code int, message string, data any) ([]byte, error) {
	resp := Response{
		JSONRPC: Version,
		ID:      normalizeID(id),
		Error: &ErrorObject{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
	return json.Marshal(resp)
}

func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}

// ParseRequest unmarshals a JSON-RPC request or notification
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

// ParseResponse unmarshals a JSON-RPC response
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

// UnmarshalResult decodes the response result into v. Returns the error
// object when the response carries one.
func (r *Response) UnmarshalResult(v any) error {
	if r.Error != nil {
		return r.Error
	}
	if r.Result == nil {
		return errors.New("response has no result")
	}
	return json.Unmarshal(r.Result, v)
}
