package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load,
// e.g. READADVANCE_DATABASE_URL binds to database.url.
const envPrefix = "READADVANCE"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over file values. Returns a populated, validated Config
// or an error describing what failed.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars may carry everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not bind keys that only exist in the environment,
	// so bind every known key explicitly.
	for _, key := range []string{
		"server.port", "server.log_level",
		"database.url",
		"auth.jwt_secret", "auth.token_lifetime_minutes",
		"auth.inter_service_secret", "auth.inter_service_max_skew_seconds",
		"nlp.base_url", "nlp.connect_timeout_seconds", "nlp.read_timeout_seconds",
		"nlp.max_retries", "nlp.retry_delay_seconds",
		"llm.gemini_api_key", "llm.model_name", "llm.max_retries",
		"llm.retry_delay_seconds", "llm.requests_per_minute",
		"task.worker_count", "task.queue_size", "task.max_attempts",
		"task.retry_delay_seconds", "task.stuck_task_age_minutes",
		"task.stuck_check_interval_min",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env key %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				fields = append(fields, fieldErr.Namespace())
			}
			return nil, fmt.Errorf("config validation failed for: %s", strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers defaults for settings with sensible fallbacks.
// Secrets and connection URLs have no defaults on purpose.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.inter_service_max_skew_seconds", 10)

	v.SetDefault("nlp.connect_timeout_seconds", 3)
	v.SetDefault("nlp.read_timeout_seconds", 30)
	v.SetDefault("nlp.max_retries", 3)
	v.SetDefault("nlp.retry_delay_seconds", 2)

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.requests_per_minute", 60)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.max_attempts", 5)
	v.SetDefault("task.retry_delay_seconds", 2)
	v.SetDefault("task.stuck_task_age_minutes", 30)
	v.SetDefault("task.stuck_check_interval_min", 5)
}
