package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	NLP      NLPConfig      `mapstructure:"nlp"      validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication settings for both the public JWT
// surface and the internal HMAC-signed surface.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// InterServiceSecret is the shared secret for signing requests between
	// internal services. InterServiceMaxSkewSeconds bounds the replay window.
	InterServiceSecret         string `mapstructure:"inter_service_secret"           validate:"required,min=16"`
	InterServiceMaxSkewSeconds int    `mapstructure:"inter_service_max_skew_seconds" validate:"required,gt=0"`
}

// NLPConfig contains settings for the NLP microservice client.
type NLPConfig struct {
	BaseURL               string `mapstructure:"base_url"                validate:"required,url"`
	ConnectTimeoutSeconds int    `mapstructure:"connect_timeout_seconds" validate:"required,gt=0"`
	ReadTimeoutSeconds    int    `mapstructure:"read_timeout_seconds"    validate:"required,gt=0"`
	MaxRetries            int    `mapstructure:"max_retries"             validate:"gte=0"`
	RetryDelaySeconds     int    `mapstructure:"retry_delay_seconds"     validate:"gte=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"      validate:"required"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" validate:"required,gt=0"`
}

// TaskConfig contains settings for background task processing.
type TaskConfig struct {
	WorkerCount           int `mapstructure:"worker_count"             validate:"required,gt=0"`
	QueueSize             int `mapstructure:"queue_size"               validate:"required,gt=0"`
	MaxAttempts           int `mapstructure:"max_attempts"             validate:"required,gt=0"`
	RetryDelaySeconds     int `mapstructure:"retry_delay_seconds"      validate:"gte=0"`
	StuckTaskAgeMinutes   int `mapstructure:"stuck_task_age_minutes"   validate:"required,gt=0"`
	StuckCheckIntervalMin int `mapstructure:"stuck_check_interval_min" validate:"required,gt=0"`
}
