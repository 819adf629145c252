package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/promptlab/internal/domain"
	"github.com/spf13/viper"
)

// APIKeyEnvVar names the environment variable holding the Gemini credential.
const APIKeyEnvVar = "GEMINI_API_KEY"

// envPrefix is prepended to every optional setting read from the environment.
const envPrefix = "PROMPTLAB"

var (
	// ErrMissingCredential is returned when the Gemini API key is not set.
	ErrMissingCredential = errors.New(APIKeyEnvVar + " environment variable is not set")

	// ErrInvalidCredential is returned when the Gemini API key is obviously malformed.
	ErrInvalidCredential = errors.New(APIKeyEnvVar + " environment variable is not a valid API key")
)

// Load reads configuration from environment variables, applies defaults and
// validates the result. A missing or malformed credential is reported before
// any other validation so the operator sees which variable to set.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("llm.gemini_api_key", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The credential keeps its conventional, unprefixed name.
	if err := v.BindEnv("llm.gemini_api_key", APIKeyEnvVar); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", APIKeyEnvVar, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LLM.ModelName = domain.ModelName
	cfg.LLM.TopP = domain.TopP

	if err := checkCredential(cfg.LLM.GeminiAPIKey); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func checkCredential(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrMissingCredential
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return ErrInvalidCredential
	}
	return nil
}
