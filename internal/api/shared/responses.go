// Package shared holds the response envelope, request decoding, and
// context helpers common to every HTTP handler.
package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/redact"
)

// ErrorBody is the error half of the response envelope. Detail carries
// machine-readable context (offending input, limits) and is optional.
type ErrorBody struct {
	Code    domain.Code `json:"code"`
	Message string      `json:"message"`
	Detail  any         `json:"detail,omitempty"`
}

// Envelope is the uniform response shape for every endpoint: exactly one
// of Data or Error is populated, and Success mirrors which one.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	TraceID string     `json:"traceId,omitempty"`
}

// RespondSuccess writes a success envelope with the given status and data.
func RespondSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, status, Envelope{
		Success: true,
		Data:    data,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondError writes a failure envelope. Only the user-safe message goes
// to the client; callers with an underlying cause should use
// RespondErrorAndLog so the cause lands in the logs.
func RespondError(w http.ResponseWriter, r *http.Request, status int, code domain.Code, message string, detail any) {
	RespondErrorAndLog(w, r, status, code, message, detail, nil)
}

// RespondErrorAndLog writes a failure envelope and logs the underlying
// error (redacted) with the trace ID for correlation. 5xx responses log at
// ERROR, everything else at DEBUG.
func RespondErrorAndLog(w http.ResponseWriter, r *http.Request, status int, code domain.Code, message string, detail any, err error) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("error_code", string(code)),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	writeJSON(w, status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Detail:  detail,
		},
		TraceID: traceID,
	})
}

// RespondFailureData writes a failure envelope that still carries data,
// used by endpoints whose contract returns a payload alongside the error.
func RespondFailureData(w http.ResponseWriter, r *http.Request, status int, data any, code domain.Code, message string) {
	writeJSON(w, status, Envelope{
		Success: false,
		Data:    data,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
		},
		TraceID: GetTraceID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
