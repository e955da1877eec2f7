package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"        validate:"required"`
	Auth          AuthConfig          `mapstructure:"auth"`
	LLM           LLMConfig           `mapstructure:"llm"           validate:"required"`
	Task          TaskConfig          `mapstructure:"task"          validate:"required"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AuthConfig contains the internal service-to-service authentication
// settings. When InternalSecret is empty the secret check is disabled,
// which is intended for local development only.
type AuthConfig struct {
	InternalSecret string `mapstructure:"internal_secret"`
}

// LLMConfig contains all reasoning/embedding provider settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`

	// FlashModel handles scoring, feedback, and refinement calls where
	// latency and cost matter more than reasoning depth.
	FlashModel string `mapstructure:"flash_model" validate:"required"`

	// ProModel handles knowledge evaluation, which needs stronger reasoning.
	ProModel string `mapstructure:"pro_model" validate:"required"`

	// EmbeddingModel converts text to vectors.
	EmbeddingModel string `mapstructure:"embedding_model" validate:"required"`

	MaxRetries        int `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// TaskConfig contains background task processing settings.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0,lte=64"`
	QueueSize   int `mapstructure:"queue_size"   validate:"required,gt=0"`

	// RetentionMinutes is how long a task record is kept after reaching a
	// terminal state before the store evicts it.
	RetentionMinutes int `mapstructure:"retention_minutes" validate:"required,gt=0"`
}

// TranscriptionConfig contains settings for the external speech-to-text
// backend. Optional: when EndpointURL is empty the transcription endpoints
// report STT_FAILURE.
type TranscriptionConfig struct {
	EndpointURL    string `mapstructure:"endpoint_url"    validate:"omitempty,url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0,lte=600"`
	Language       string `mapstructure:"language"`
}
