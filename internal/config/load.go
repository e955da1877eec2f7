package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over file values and use the IMYME_ prefix with underscores
// for nesting (e.g. IMYME_SERVER_PORT, IMYME_LLM_GEMINI_API_KEY).
// Returns a populated Config struct or an error if loading or validation
// fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("IMYME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults suffice.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers defaults for every key so that viper's AutomaticEnv
// lookup knows about them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.internal_secret", "")

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.flash_model", "gemini-3-flash-preview")
	v.SetDefault("llm.pro_model", "gemini-3-pro-preview")
	v.SetDefault("llm.embedding_model", "gemini-embedding-001")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("task.worker_count", 4)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.retention_minutes", 30)

	v.SetDefault("transcription.endpoint_url", "")
	v.SetDefault("transcription.api_key", "")
	v.SetDefault("transcription.timeout_seconds", 120)
	v.SetDefault("transcription.language", "ko")
}
