// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with rich context for Agora.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies Agora errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeContextLost indicates context was lost (e.g., canceled mid-retry).
	CodeContextLost ErrorCode = "CONTEXT_LOST"

	// CodeWeatherUpstream indicates the weather upstream call failed.
	CodeWeatherUpstream ErrorCode = "WEATHER_UPSTREAM"

	// CodeKnowledgeMiss indicates a knowledge base lookup found nothing.
	CodeKnowledgeMiss ErrorCode = "KNOWLEDGE_MISS"

	// CodeGraphQuery indicates a graph query could not be parsed or answered.
	CodeGraphQuery ErrorCode = "GRAPH_QUERY"

	// CodeMailbox indicates a mailbox storage error.
	CodeMailbox ErrorCode = "MAILBOX_ERROR"

	// CodeTransport indicates a message transport error.
	CodeTransport ErrorCode = "TRANSPORT_ERROR"
)

// AgoraError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type AgoraError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Attributes  map[string]string
	Recoverable bool
	StatusCode  int // For HTTP responses
}

// Error implements the error interface.
func (e *AgoraError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *AgoraError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *AgoraError) MarshalJSON() ([]byte, error) {
	type Alias AgoraError
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new AgoraError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *AgoraError {
	return &AgoraError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		Attributes: make(map[string]string),
		StatusCode: codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *AgoraError) WithContext(key string, value interface{}) *AgoraError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithAttribute adds a string attribute for OTEL traces.
// Returns the error for method chaining.
func (e *AgoraError) WithAttribute(key, value string) *AgoraError {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *AgoraError) WithRecoverable(recoverable bool) *AgoraError {
	e.Recoverable = recoverable
	return e
}

// AsAgoraError attempts to convert an error to an AgoraError.
// Returns the error as AgoraError if it is one, or wraps it otherwise.
func AsAgoraError(err error) *AgoraError {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AgoraError); ok {
		return ae
	}
	// Wrap unknown error as internal
	return New(CodeInternal, "wrapped error", err)
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *AgoraError) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}

// codeToStatusCode maps error codes to HTTP status codes.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodeNotFound, CodeKnowledgeMiss:
		return 404 // NOT_FOUND
	case CodeInvalidInput, CodeGraphQuery:
		return 400 // INVALID_ARGUMENT
	case CodeTimeout:
		return 408 // DEADLINE_EXCEEDED
	case CodeWeatherUpstream:
		return 502 // BAD_GATEWAY
	default:
		return 500 // INTERNAL
	}
}
