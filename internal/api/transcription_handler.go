package api

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/imyme/ai-server/internal/api/shared"
	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/metrics"
)

// urlPattern accepts http(s)/ftp(s) URLs with a domain, localhost, or an
// IPv4 host, an optional port, and an optional path.
var urlPattern = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// supportedAudioFormats are the extensions the transcription worker can
// decode.
var supportedAudioFormats = []string{
	".mp3", ".wav", ".m4a", ".flac", ".ogg", ".aac", ".wma", ".webm", ".mp4",
}

// TranscriptionRequest is the body for the transcription endpoint.
type TranscriptionRequest struct {
	AudioURL string `json:"audioUrl" validate:"required"`
}

// TranscriptionData is the success payload.
type TranscriptionData struct {
	Text string `json:"text"`
}

// Transcriber is the handler's view of the speech-to-text backend.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL, language string) (*domain.TranscriptionResult, error)
}

// TranscriptionHandler handles audio transcription requests.
type TranscriptionHandler struct {
	transcriber Transcriber
	metrics     *metrics.Metrics
	logger      *slog.Logger
	language    string
}

// NewTranscriptionHandler creates a TranscriptionHandler. The language is
// forced on every job so the worker skips detection.
func NewTranscriptionHandler(transcriber Transcriber, m *metrics.Metrics, logger *slog.Logger, language string) *TranscriptionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TranscriptionHandler")
	}
	return &TranscriptionHandler{
		transcriber: transcriber,
		metrics:     m,
		logger:      logger.With(slog.String("component", "transcription_handler")),
		language:    language,
	}
}

// Transcribe handles POST /audio/transcriptions. The audio URL is
// validated for shape and extension before the worker is called.
func (h *TranscriptionHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req TranscriptionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondErrorAndLog(w, r, http.StatusBadRequest,
			domain.CodeInvalidJSON, "Request body is not valid JSON", nil, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondErrorAndLog(w, r, http.StatusBadRequest,
			domain.CodeValidationError, shared.ValidationMessage(err), nil, err)
		return
	}

	if !urlPattern.MatchString(req.AudioURL) {
		shared.RespondError(w, r, http.StatusBadRequest, domain.CodeInvalidURL,
			"The audio URL is not a valid URL",
			map[string]any{"input": req.AudioURL})
		return
	}

	if ext, ok := audioExtension(req.AudioURL); !ok {
		shared.RespondError(w, r, http.StatusBadRequest, domain.CodeUnsupportedFormat,
			"Unsupported audio format ("+ext+")",
			map[string]any{"detected": ext, "supported": supportedAudioFormats})
		return
	}

	start := time.Now()
	result, err := h.transcriber.Transcribe(r.Context(), req.AudioURL, h.language)
	if err != nil {
		h.metrics.RecordSTTRequest("failed", time.Since(start))
		code := classifyTranscriptionFailure(err)
		shared.RespondErrorAndLog(w, r, http.StatusInternalServerError, code,
			"Audio transcription failed", nil, err)
		return
	}
	h.metrics.RecordSTTRequest("success", time.Since(start))

	shared.RespondSuccess(w, r, http.StatusOK, TranscriptionData{Text: result.Text})
}

// audioExtension extracts the extension from the URL, ignoring query
// parameters, and reports whether it is supported.
func audioExtension(audioURL string) (string, bool) {
	cleanURL := strings.ToLower(strings.SplitN(audioURL, "?", 2)[0])
	for _, ext := range supportedAudioFormats {
		if strings.HasSuffix(cleanURL, ext) {
			return ext, true
		}
	}
	if idx := strings.LastIndex(cleanURL, "."); idx != -1 {
		return cleanURL[idx:], false
	}
	return "unknown", false
}

// classifyTranscriptionFailure distinguishes fetch problems from worker
// problems by the error text, mirroring what the worker reports.
func classifyTranscriptionFailure(err error) domain.Code {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "download") || strings.Contains(msg, "403") || strings.Contains(msg, "404") {
		return domain.CodeDownloadFailure
	}
	return domain.CodeSTTFailure
}
