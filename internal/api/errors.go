package api

import (
	"net/http"

	"github.com/imyme/ai-server/internal/domain"
)

// statusForCode maps an error code to the HTTP status it is served with.
// Codes not listed are server faults.
var statusForCode = map[domain.Code]int{
	domain.CodeInvalidURL:        http.StatusBadRequest,
	domain.CodeUnsupportedFormat: http.StatusBadRequest,
	domain.CodeInvalidJSON:       http.StatusBadRequest,
	domain.CodeEmptyBatchData:    http.StatusBadRequest,
	domain.CodeTextTooLong:       http.StatusBadRequest,
	domain.CodeValidationError:   http.StatusBadRequest,
	domain.CodeTaskNotFound:      http.StatusNotFound,
	domain.CodeAuthError:         http.StatusForbidden,
}

// StatusForError resolves the HTTP status for an error via its code.
func StatusForError(err error) int {
	if status, ok := statusForCode[domain.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
