package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imyme/ai-server/internal/domain"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var envelope Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestRespondSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(SetTraceID(req.Context()))

	RespondSuccess(rec, req, http.StatusAccepted, map[string]string{"status": "PENDING"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)
	assert.Nil(t, envelope.Error)
	assert.NotEmpty(t, envelope.TraceID)
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	RespondError(rec, req, http.StatusNotFound, domain.CodeTaskNotFound,
		"The task does not exist or has expired", map[string]any{"attemptId": "9"})

	assert.Equal(t, http.StatusNotFound, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, domain.CodeTaskNotFound, envelope.Error.Code)
	assert.Equal(t, "The task does not exist or has expired", envelope.Error.Message)
	assert.NotNil(t, envelope.Error.Detail)
}

func TestRespondErrorAndLogNeverLeaksCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)

	cause := errors.New("connection to 10.0.0.5:5432 refused, api_key=sk-secret")
	RespondErrorAndLog(rec, req, http.StatusInternalServerError,
		domain.CodeInternalError, "Something went wrong", nil, cause)

	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.NotContains(t, rec.Body.String(), "sk-secret")

	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "Something went wrong", envelope.Error.Message)
}

func TestRespondFailureDataCarriesBoth(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	RespondFailureData(rec, req, http.StatusOK,
		map[string]string{"status": "FAILED"},
		domain.CodeLLMProviderError, "The analysis failed")

	envelope := decodeEnvelope(t, rec)
	assert.False(t, envelope.Success)
	assert.NotNil(t, envelope.Data)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, domain.CodeLLMProviderError, envelope.Error.Code)
}
