// Package config loads pseudoscribe's settings.
//
// Precedence, lowest first: built-in defaults, an optional YAML file, then
// the process environment. Variables from .env files are loaded into the
// environment beforehand without overriding variables that are already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/pseudoscribe/providers/observability/slogobs"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.0-flash-exp"

// Config is the complete configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Limits   LimitsConfig   `yaml:"limits"`
	Recovery RecoveryConfig `yaml:"recovery"`
	Log      LogConfig      `yaml:"log"`
}

// ProviderConfig selects and tunes the Gemini model.
type ProviderConfig struct {
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
	JSONMode bool          `yaml:"json_mode"`

	// Temperature and MaxOutputTokens are sent only when non-zero.
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// LimitsConfig bounds how fast the service calls the model.
type LimitsConfig struct {
	// RequestsPerMinute paces model calls; 0 disables pacing.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// RecoveryConfig tunes the JSON recovery pipeline.
type RecoveryConfig struct {
	// Lenient adds the jsonrepair tier to the recovery pipeline.
	Lenient bool `yaml:"lenient"`
}

// LogConfig configures the slog observer.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // compact, text, json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Model:   DefaultModel,
			Timeout: 60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: string(slogobs.FormatCompact),
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment. envFiles are loaded with godotenv first;
// missing env files are ignored. The result is validated.
func Load(path string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Provider.APIKey, "GEMINI_API_KEY")
	setString(&c.Provider.BaseURL, "GEMINI_API_BASE_URL")
	setString(&c.Provider.Model, "PSEUDOSCRIBE_MODEL")
	setString(&c.Log.Level, "PSEUDOSCRIBE_LOG_LEVEL")
	setString(&c.Log.Format, "PSEUDOSCRIBE_LOG_FORMAT")

	if v, ok := lookup("PSEUDOSCRIBE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PSEUDOSCRIBE_TIMEOUT: %w", err)
		}
		c.Provider.Timeout = d
	}
	if v, ok := lookup("PSEUDOSCRIBE_JSON_MODE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PSEUDOSCRIBE_JSON_MODE: %w", err)
		}
		c.Provider.JSONMode = b
	}
	if v, ok := lookup("PSEUDOSCRIBE_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("PSEUDOSCRIBE_TEMPERATURE: %w", err)
		}
		c.Provider.Temperature = float32(f)
	}
	if v, ok := lookup("PSEUDOSCRIBE_MAX_OUTPUT_TOKENS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PSEUDOSCRIBE_MAX_OUTPUT_TOKENS: %w", err)
		}
		c.Provider.MaxOutputTokens = n
	}
	if v, ok := lookup("PSEUDOSCRIBE_REQUESTS_PER_MINUTE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PSEUDOSCRIBE_REQUESTS_PER_MINUTE: %w", err)
		}
		c.Limits.RequestsPerMinute = n
	}
	if v, ok := lookup("PSEUDOSCRIBE_LENIENT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PSEUDOSCRIBE_LENIENT: %w", err)
		}
		c.Recovery.Lenient = b
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider.Model) == "" {
		return errors.New("provider.model must not be empty")
	}
	if c.Provider.Timeout < 0 {
		return fmt.Errorf("provider.timeout must not be negative, got %s", c.Provider.Timeout)
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		return fmt.Errorf("provider.temperature must be within 0 and 2, got %g", c.Provider.Temperature)
	}
	if c.Provider.MaxOutputTokens < 0 {
		return fmt.Errorf("provider.max_output_tokens must not be negative, got %d", c.Provider.MaxOutputTokens)
	}
	if c.Limits.RequestsPerMinute < 0 {
		return fmt.Errorf("limits.requests_per_minute must not be negative, got %d", c.Limits.RequestsPerMinute)
	}
	switch slogobs.Format(strings.ToLower(c.Log.Format)) {
	case slogobs.FormatCompact, slogobs.FormatText, slogobs.FormatJSON:
	default:
		return fmt.Errorf("log.format %q is not one of compact, text, json", c.Log.Format)
	}
	if _, err := slogobs.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}
