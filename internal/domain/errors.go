package domain

import (
	"errors"
	"fmt"
)

// Code identifies an error scenario. Codes are part of the API contract:
// clients branch on them, so values must stay stable.
type Code string

// All error codes used by the server.
const (
	// Transcription errors
	CodeInvalidURL        Code = "INVALID_URL"
	CodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	CodeSTTFailure        Code = "STT_FAILURE"
	CodeSTTTimeout        Code = "STT_TIMEOUT"
	CodeDownloadFailure   Code = "DOWNLOAD_FAILURE"
	CodeGPUFail           Code = "GPU_FAIL"

	// Task / analysis errors
	CodeTaskNotFound   Code = "TASK_NOT_FOUND"
	CodeMissingContext Code = "MISSING_CONTEXT"
	CodeInvalidJSON    Code = "INVALID_JSON"

	// Knowledge errors
	CodeEmptyBatchData     Code = "EMPTY_BATCH_DATA"
	CodeTextTooLong        Code = "TEXT_TOO_LONG"
	CodeInvalidLLMResponse Code = "INVALID_LLM_RESPONSE"

	// General errors
	CodeValidationError Code = "VALIDATION_ERROR"
	CodeAuthError       Code = "AUTH_ERROR"
	CodeInternalError   Code = "INTERNAL_ERROR"

	// External service errors
	CodeLLMProviderError  Code = "LLM_PROVIDER_ERROR"
	CodeEmbeddingFailure  Code = "EMBEDDING_FAILURE"
	CodeVectorDimMismatch Code = "VECTOR_DIM_MISMATCH"
)

// Error is a coded error carrying a user-safe message. The message is what
// clients see; anything sensitive belongs in the wrapped error, which is
// only ever logged.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a coded error with a user-safe message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates a coded error wrapping an underlying cause.
func WrapError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the Code from an error chain. Errors without a code
// resolve to CodeInternalError.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternalError
}
