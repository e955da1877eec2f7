package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IMYME_LLM_GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "gemini-3-flash-preview", cfg.LLM.FlashModel)
	assert.Equal(t, "gemini-3-pro-preview", cfg.LLM.ProModel)
	assert.Equal(t, "gemini-embedding-001", cfg.LLM.EmbeddingModel)
	assert.Equal(t, 4, cfg.Task.WorkerCount)
	assert.Equal(t, 100, cfg.Task.QueueSize)
	assert.Equal(t, 30, cfg.Task.RetentionMinutes)
	assert.Equal(t, "ko", cfg.Transcription.Language)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("IMYME_LLM_GEMINI_API_KEY", "test-key")
	t.Setenv("IMYME_SERVER_PORT", "9090")
	t.Setenv("IMYME_SERVER_LOG_LEVEL", "debug")
	t.Setenv("IMYME_TASK_WORKER_COUNT", "8")
	t.Setenv("IMYME_AUTH_INTERNAL_SECRET", "sekrit")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 8, cfg.Task.WorkerCount)
	assert.Equal(t, "sekrit", cfg.Auth.InternalSecret)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("IMYME_LLM_GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadInvalidLogLevel(t *testing.T) {
	t.Setenv("IMYME_LLM_GEMINI_API_KEY", "test-key")
	t.Setenv("IMYME_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
}
