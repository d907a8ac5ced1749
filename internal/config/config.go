// Package config loads the remix runtime configuration from an optional
// YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/mhpenta/remix"
	"github.com/mhpenta/remix/provider/gemini"
)

// EnvPrefix prefixes every environment override, e.g. REMIX_SERVER_ADDR.
const EnvPrefix = "REMIX"

// Config is the full runtime configuration.
type Config struct {
	Gemini GeminiConfig `mapstructure:"gemini" yaml:"gemini"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// GeminiConfig configures the generation backend.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	Model   string `mapstructure:"model" yaml:"model"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`

	// Temperature is nil when unset; an explicit 0 is sent as 0.
	Temperature    *float32              `mapstructure:"temperature" yaml:"temperature,omitempty"`
	SafetySettings []SafetySettingConfig `mapstructure:"safety_settings" yaml:"safety_settings,omitempty"`
	RequestTimeout time.Duration         `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// SafetySettingConfig is one content filter, e.g.
// {category: HARM_CATEGORY_HARASSMENT, threshold: BLOCK_NONE}.
type SafetySettingConfig struct {
	Category  string `mapstructure:"category" yaml:"category"`
	Threshold string `mapstructure:"threshold" yaml:"threshold"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// OutputConfig configures where exported images are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini.model", gemini.DefaultModel)
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.request_timeout", 2*time.Minute)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("output.dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are used. A .env file in the working
// directory is loaded first and never overrides variables already set.
// Precedence, highest first: environment, config file, defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The key is also accepted under its conventional unprefixed name.
	if err := v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", gemini.APIKeyEnv); err != nil {
		return nil, err
	}
	// No default, so an unset temperature stays nil.
	if err := v.BindEnv("gemini.temperature"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.Gemini.APIKey = strings.TrimSpace(cfg.Gemini.APIKey)

	return &cfg, nil
}

// Validate checks the values a generation needs.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return &remix.ConfigurationError{Key: gemini.APIKeyEnv}
	}
	if c.Gemini.RequestTimeout < 0 {
		return fmt.Errorf("gemini.request_timeout must not be negative, got %s", c.Gemini.RequestTimeout)
	}
	if t := c.Gemini.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("gemini.temperature must be within [0, 2], got %v", *t)
	}
	for i, s := range c.Gemini.SafetySettings {
		if strings.TrimSpace(s.Category) == "" || strings.TrimSpace(s.Threshold) == "" {
			return fmt.Errorf("gemini.safety_settings[%d] needs both category and threshold", i)
		}
	}
	return validateModel(c.Gemini.Model, gemini.LookupModel)
}

// validateModel rejects a known model that cannot take two input images.
// Unknown names are let through for the provider to judge.
func validateModel(name string, lookup func(string) (remix.ModelInfo, bool)) error {
	info, ok := lookup(name)
	if ok && !info.CanRemix() {
		return fmt.Errorf("gemini.model %q cannot combine two images (max %d input images)",
			name, info.Capabilities.MaxInputImages)
	}
	return nil
}

// ProviderConfig converts the Gemini section into adapter settings.
func (c *Config) ProviderConfig() *remix.ProviderConfig {
	gen := remix.DefaultConfig().WithModel(remix.Model(c.Gemini.Model))
	if c.Gemini.Temperature != nil {
		t := *c.Gemini.Temperature
		gen.Temperature = &t
	}
	for _, s := range c.Gemini.SafetySettings {
		gen.SafetySettings = append(gen.SafetySettings, remix.SafetySetting{
			Category:  remix.SafetyCategory(strings.ToUpper(strings.TrimSpace(s.Category))),
			Threshold: remix.SafetyThreshold(strings.ToUpper(strings.TrimSpace(s.Threshold))),
		})
	}
	return &remix.ProviderConfig{
		Provider: remix.ProviderGeminiAPI,
		APIKey:   c.Gemini.APIKey,
		BaseURL:  c.Gemini.BaseURL,
		Generate: gen,
	}
}

// Redacted returns a copy that is safe to print.
func (c Config) Redacted() Config {
	if c.Gemini.APIKey != "" {
		c.Gemini.APIKey = "********"
	}
	return c
}
