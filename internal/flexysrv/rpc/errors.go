package rpc

import (
	"errors"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/common/jsonrpc"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
)

// rpcError is a JSON-RPC error in flight: a code plus the message that
// goes on the wire.
type rpcError struct {
	Code    int
	Message string
}

func methodNotFound(method string) *rpcError {
	return &rpcError{
		Code:    jsonrpc.CodeMethodNotFound,
		Message: "method not found: " + method,
	}
}

func invalidParams(err error) *rpcError {
	e := &rpcError{
		Code:    jsonrpc.CodeInvalidParams,
		Message: "invalid params",
	}
	if err != nil {
		e.Message = "invalid params: " + err.Error()
	}
	return e
}

// fromAppError maps the service error kinds onto the wire codes. The
// message crosses as-is; these errors are written for callers.
func fromAppError(err apperrors.Error) *rpcError {
	code := jsonrpc.CodeServerError
	switch {
	case errors.Is(err, dberror.ErrValidation):
		code = jsonrpc.CodeInvalidParams
	case errors.Is(err, dberror.ErrNotFound):
		code = jsonrpc.CodeNotFound
	case errors.Is(err, dberror.ErrAlreadyExists):
		code = jsonrpc.CodeAlreadyExists
	}
	return &rpcError{
		Code:    code,
		Message: err.Error(),
	}
}
