package mcpserver

import (
	"errors"
	"fmt"

	"github.com/amancerp/graphweave/internal/apperr"
)

// Custom MCP error codes, following the JSON-RPC reserved range used
// for server-defined errors.
const (
	ErrCodeBackend       = -32001
	ErrCodeIntegrity     = -32002
	ErrCodeShape         = -32003
	ErrCodeConfiguration = -32004

	ErrCodeInvalidParams = -32602
	ErrCodeInternalError = -32603
)

// MCPError is a JSON-RPC-shaped error carrying a numeric code.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("mcp error %d: %s", e.Code, e.Message)
}

// NewInvalidParamsError builds an MCPError for a malformed tool call.
func NewInvalidParamsError(message string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: message}
}

// MapError converts an internal error into an MCPError, routing
// apperr.Error values to a code by Kind and falling back to a generic
// internal error for anything else.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.Backend:
			return &MCPError{Code: ErrCodeBackend, Message: appErr.Error()}
		case apperr.Integrity:
			return &MCPError{Code: ErrCodeIntegrity, Message: appErr.Error()}
		case apperr.Shape:
			return &MCPError{Code: ErrCodeShape, Message: appErr.Error()}
		case apperr.Configuration:
			return &MCPError{Code: ErrCodeConfiguration, Message: appErr.Error()}
		case apperr.Input:
			return &MCPError{Code: ErrCodeInvalidParams, Message: appErr.Error()}
		}
	}

	return &MCPError{Code: ErrCodeInternalError, Message: err.Error()}
}
