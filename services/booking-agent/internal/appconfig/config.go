// Package appconfig reads the booking agent's settings from the environment.
package appconfig

import (
	"errors"
	"time"

	"github.com/md-rashed-zaman/apptagent/libs/config"
	"github.com/md-rashed-zaman/apptagent/libs/llm"
)

const ServiceName = "booking-agent"

type Config struct {
	Service     string
	DatabaseURL string
	Port        string

	LLM               llm.Config
	RephraseEnabled   bool
	RephraseResults   bool
	RephraseCacheSize int
	MaxIterations     int

	KafkaBrokers string
	KafkaTopic   string

	RedisURL           string
	RateLimitPerMinute int
	APIToken           string
	RequestTimeout     time.Duration
}

// Load collects every setting and reports all invalid values at once.
func Load() (Config, error) {
	var errs []error
	cfg := Config{
		Service:     config.String("SERVICE_NAME", ServiceName),
		DatabaseURL: config.String("DATABASE_URL", "sqlite:data/appointments.db"),
		LLM: llm.Config{
			Provider:        config.String("LLM_PROVIDER", "openai"),
			Model:           config.String("LLM_MODEL", "gpt-4o-mini"),
			OpenAIAPIKey:    config.String("OPENAI_API_KEY", ""),
			OpenAIBaseURL:   config.String("OPENAI_BASE_URL", ""),
			AnthropicAPIKey: config.String("ANTHROPIC_API_KEY", ""),
		},
		KafkaBrokers: config.String("KAFKA_BROKERS", ""),
		KafkaTopic:   config.String("KAFKA_TOPIC", ""),
		RedisURL:     config.String("REDIS_URL", ""),
		APIToken:     config.String("API_TOKEN", ""),
	}

	var err error
	if cfg.Port, err = config.Port("PORT", "8080"); err != nil {
		errs = append(errs, err)
	}
	if cfg.RephraseEnabled, err = config.Bool("REPHRASE_ENABLED", true); err != nil {
		errs = append(errs, err)
	}
	if cfg.RephraseResults, err = config.Bool("REPHRASE_RESULTS", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.RephraseCacheSize, err = config.Int("REPHRASE_CACHE_SIZE", 256); err != nil {
		errs = append(errs, err)
	}
	if cfg.MaxIterations, err = config.Int("AGENT_MAX_ITERATIONS", 5); err != nil {
		errs = append(errs, err)
	}
	if cfg.RateLimitPerMinute, err = config.Int("RATE_LIMIT_PER_MINUTE", 60); err != nil {
		errs = append(errs, err)
	}
	if cfg.RequestTimeout, err = config.Duration("REQUEST_TIMEOUT", 60*time.Second); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LLMConfigured reports whether an API key for the selected provider is set.
func (c Config) LLMConfigured() bool {
	if c.LLM.Provider == "anthropic" {
		return c.LLM.AnthropicAPIKey != ""
	}
	return c.LLM.OpenAIAPIKey != ""
}
