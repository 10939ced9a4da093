package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the learning core consumes. The wire layer has
// its own configuration and does not go through this struct.
type Config struct {
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	LLMEndpoint       string `mapstructure:"LLM_ENDPOINT"`
	LLMAPIKey         string `mapstructure:"LLM_API_KEY"`
	LLMTimeoutSeconds int    `mapstructure:"LLM_TIMEOUT_SECONDS"`
	LogMode           string `mapstructure:"LOG_MODE"`
}

// Load reads app.env from path when present and falls back to process env.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Bind explicitly so env vars are visible even without a config file.
	for _, key := range []string{
		"DATABASE_URL",
		"LLM_ENDPOINT",
		"LLM_API_KEY",
		"LLM_TIMEOUT_SECONDS",
		"LOG_MODE",
	} {
		_ = v.BindEnv(key)
	}

	v.SetDefault("LLM_TIMEOUT_SECONDS", 10)
	v.SetDefault("LOG_MODE", "development")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.LLMEndpoint == "" {
		return Config{}, fmt.Errorf("LLM_ENDPOINT is required")
	}
	if cfg.LLMAPIKey == "" {
		return Config{}, fmt.Errorf("LLM_API_KEY is required")
	}
	if cfg.LLMTimeoutSeconds <= 0 {
		cfg.LLMTimeoutSeconds = 10
	}
	return cfg, nil
}
