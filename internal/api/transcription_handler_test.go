package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imyme/ai-server/internal/api/shared"
	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/metrics"
)

// mockTranscriber returns a canned transcript and records the job it got.
type mockTranscriber struct {
	result   *domain.TranscriptionResult
	err      error
	audioURL string
	language string
	calls    int
}

func (m *mockTranscriber) Transcribe(_ context.Context, audioURL, language string) (*domain.TranscriptionResult, error) {
	m.calls++
	m.audioURL = audioURL
	m.language = language
	return m.result, m.err
}

func newTranscriptionTestRouter(transcriber *mockTranscriber) *chi.Mux {
	handler := NewTranscriptionHandler(transcriber, metrics.New(), setupTestLogger(), "ko")
	router := chi.NewRouter()
	router.Post("/api/v1/audio/transcriptions", handler.Transcribe)
	return router
}

func TestTranscribeSuccess(t *testing.T) {
	transcriber := &mockTranscriber{result: &domain.TranscriptionResult{Text: "hello world"}}
	router := newTranscriptionTestRouter(transcriber)

	rec := postJSON(t, router, "/api/v1/audio/transcriptions",
		`{"audioUrl":"https://cdn.example.com/audio/clip.mp3?token=abc"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope shared.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	data := envelope.Data.(map[string]any)
	assert.Equal(t, "hello world", data["text"])
	assert.Equal(t, "https://cdn.example.com/audio/clip.mp3?token=abc", transcriber.audioURL)
	assert.Equal(t, "ko", transcriber.language)
}

func TestTranscribeRejectsInvalidURL(t *testing.T) {
	transcriber := &mockTranscriber{}
	router := newTranscriptionTestRouter(transcriber)

	rec := postJSON(t, router, "/api/v1/audio/transcriptions",
		`{"audioUrl":"not a url"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(domain.CodeInvalidURL))
	assert.Equal(t, 0, transcriber.calls)
}

func TestTranscribeRejectsUnsupportedFormat(t *testing.T) {
	transcriber := &mockTranscriber{}
	router := newTranscriptionTestRouter(transcriber)

	rec := postJSON(t, router, "/api/v1/audio/transcriptions",
		`{"audioUrl":"https://cdn.example.com/docs/notes.txt"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(domain.CodeUnsupportedFormat))
	assert.Contains(t, rec.Body.String(), ".txt")
	assert.Equal(t, 0, transcriber.calls)
}

func TestTranscribeDownloadFailure(t *testing.T) {
	transcriber := &mockTranscriber{err: errors.New("worker: audio download failed with 403")}
	router := newTranscriptionTestRouter(transcriber)

	rec := postJSON(t, router, "/api/v1/audio/transcriptions",
		`{"audioUrl":"https://cdn.example.com/audio/clip.wav"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), string(domain.CodeDownloadFailure))
}

func TestTranscribeWorkerFailure(t *testing.T) {
	transcriber := &mockTranscriber{err: errors.New("worker crashed mid-job")}
	router := newTranscriptionTestRouter(transcriber)

	rec := postJSON(t, router, "/api/v1/audio/transcriptions",
		`{"audioUrl":"https://cdn.example.com/audio/clip.wav"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), string(domain.CodeSTTFailure))
}

func TestAudioExtension(t *testing.T) {
	tests := []struct {
		url       string
		wantExt   string
		supported bool
	}{
		{"https://x.com/a.mp3", ".mp3", true},
		{"https://x.com/a.MP3", ".mp3", true},
		{"https://x.com/a.wav?sig=zz", ".wav", true},
		{"https://x.com/a.txt", ".txt", false},
		{"https://x.com/noext", "unknown", false},
	}
	for _, tc := range tests {
		ext, ok := audioExtension(tc.url)
		assert.Equal(t, tc.wantExt, ext, tc.url)
		assert.Equal(t, tc.supported, ok, tc.url)
	}
}

func TestTranscribeMissingAudioURL(t *testing.T) {
	transcriber := &mockTranscriber{}
	router := newTranscriptionTestRouter(transcriber)

	rec := postJSON(t, router, "/api/v1/audio/transcriptions", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(domain.CodeValidationError))
}
