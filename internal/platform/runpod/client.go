// Package runpod provides a client for the RunPod-hosted speech-to-text
// worker. The worker downloads the audio itself; this client only submits
// the job and maps the response.
package runpod

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/redact"
)

// Common errors returned by the runpod package
var (
	// ErrNotConfigured is returned when no endpoint URL is configured
	ErrNotConfigured = errors.New("transcription backend is not configured")

	// ErrJobFailed is returned when the worker reports a failed job
	ErrJobFailed = errors.New("transcription job failed")
)

// Client calls a RunPod serverless endpoint synchronously.
type Client struct {
	logger      *slog.Logger
	httpClient  *http.Client
	endpointURL string
	apiKey      string
}

// NewClient creates a RunPod client. endpointURL may be empty, in which
// case every call returns ErrNotConfigured.
func NewClient(logger *slog.Logger, endpointURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Client{
		logger:      logger.With("component", "runpod_client"),
		httpClient:  &http.Client{Timeout: timeout},
		endpointURL: endpointURL,
		apiKey:      apiKey,
	}
}

type transcribeInput struct {
	AudioURL string `json:"audio_url"`
	Language string `json:"language,omitempty"`
}

type runRequest struct {
	Input transcribeInput `json:"input"`
}

type runResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Output struct {
		Text     string `json:"text"`
		Language string `json:"detected_language,omitempty"`
		Segments []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Text  string  `json:"text"`
		} `json:"segments,omitempty"`
	} `json:"output"`
}

// Transcribe submits the audio URL to the worker's synchronous endpoint and
// waits for the transcript.
func (c *Client) Transcribe(
	ctx context.Context,
	audioURL string,
	language string,
) (*domain.TranscriptionResult, error) {
	if c.endpointURL == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(runRequest{Input: transcribeInput{
		AudioURL: audioURL,
		Language: language,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcription request: %w", err)
	}

	resp, err := c.post(ctx, c.endpointURL+"/runsync", body)
	if err != nil {
		return nil, err
	}

	if resp.Status != "COMPLETED" {
		c.logger.ErrorContext(ctx, "transcription job did not complete",
			"status", resp.Status,
			"error", redact.String(resp.Error))
		return nil, fmt.Errorf("%w: status %s: %s", ErrJobFailed, resp.Status, resp.Error)
	}

	result := &domain.TranscriptionResult{
		Text:     resp.Output.Text,
		Language: resp.Output.Language,
	}
	for _, s := range resp.Output.Segments {
		result.Segments = append(result.Segments, domain.TranscriptionSegment{
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}

	return result, nil
}

// Warmup asks the worker to load its model ahead of the first real job.
// The request is submitted to the asynchronous endpoint; completion is not
// awaited.
func (c *Client) Warmup(ctx context.Context) error {
	if c.endpointURL == "" {
		return ErrNotConfigured
	}

	body := []byte(`{"input":{"warmup":true}}`)
	if _, err := c.post(ctx, c.endpointURL+"/run", body); err != nil {
		return err
	}

	return nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*runResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJobFailed, err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrJobFailed, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d: %s",
			ErrJobFailed, httpResp.StatusCode, redact.String(string(respBody)))
	}

	var resp runResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: unexpected response body: %v", ErrJobFailed, err)
	}

	return &resp, nil
}
