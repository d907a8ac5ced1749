package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhpenta/remix"
	"github.com/mhpenta/remix/provider/gemini"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY",
		"REMIX_GEMINI_API_KEY",
		"REMIX_GEMINI_MODEL",
		"REMIX_GEMINI_TEMPERATURE",
		"REMIX_SERVER_ADDR",
		"REMIX_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, gemini.DefaultModel, cfg.Gemini.Model)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Gemini.RequestTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.Nil(t, cfg.Gemini.Temperature)
	assert.Empty(t, cfg.Gemini.SafetySettings)
}

func TestLoad_MissingKeyFailsValidation(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, remix.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
gemini:
  api_key: file-key
  model: gemini-3-pro-image-preview
  request_timeout: 30s
server:
  addr: ":9000"
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-3-pro-image-preview", cfg.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.Gemini.RequestTimeout)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("REMIX_SERVER_ADDR", ":9100")

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey, "environment wins over the file")
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing key", mutate: func(c *Config) { c.Gemini.APIKey = "" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Gemini.RequestTimeout = -time.Second }, wantErr: true},
		{name: "temperature too high", mutate: func(c *Config) { c.Gemini.Temperature = ptr(float32(3)) }, wantErr: true},
		{name: "zero temperature", mutate: func(c *Config) { c.Gemini.Temperature = ptr(float32(0)) }},
		{name: "unknown model", mutate: func(c *Config) { c.Gemini.Model = "gemini-experimental" }},
		{name: "public model name", mutate: func(c *Config) { c.Gemini.Model = "nano-banana-2" }},
		{
			name: "safety setting without threshold",
			mutate: func(c *Config) {
				c.Gemini.SafetySettings = []SafetySettingConfig{{Category: "HARM_CATEGORY_HARASSMENT"}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Gemini: GeminiConfig{APIKey: "k", Model: gemini.DefaultModel}}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ProviderConfig(t *testing.T) {
	cfg := &Config{Gemini: GeminiConfig{APIKey: "k", Model: "m", BaseURL: "http://localhost:1", Temperature: ptr(float32(0.5))}}

	pc := cfg.ProviderConfig()
	assert.Equal(t, remix.ProviderGeminiAPI, pc.Provider)
	assert.Equal(t, "k", pc.APIKey)
	assert.Equal(t, "http://localhost:1", pc.BaseURL)
	assert.Equal(t, remix.Model("m"), pc.Generate.Model)
	require.NotNil(t, pc.Generate.Temperature)
	assert.InDelta(t, 0.5, *pc.Generate.Temperature, 1e-6)

	cfg.Gemini.Temperature = ptr(float32(0))
	require.NotNil(t, cfg.ProviderConfig().Generate.Temperature)
	assert.Zero(t, *cfg.ProviderConfig().Generate.Temperature)

	cfg.Gemini.Temperature = nil
	assert.Nil(t, cfg.ProviderConfig().Generate.Temperature)
}

func TestLoad_SafetySettingsReachProvider(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
gemini:
  api_key: k
  safety_settings:
    - category: HARM_CATEGORY_HARASSMENT
      threshold: BLOCK_NONE
    - category: harm_category_hate_speech
      threshold: block_only_high
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	settings := cfg.ProviderConfig().Generate.SafetySettings
	require.Len(t, settings, 2)
	assert.Equal(t, remix.SafetySetting{
		Category:  remix.SafetyCategoryHarassment,
		Threshold: remix.SafetyThresholdBlockNone,
	}, settings[0])
	assert.Equal(t, remix.SafetySetting{
		Category:  remix.SafetyCategoryHateSpeech,
		Threshold: remix.SafetyThresholdBlockHighAndUp,
	}, settings[1])
}

func TestLoad_ExplicitZeroTemperature(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
gemini:
  api_key: k
  temperature: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Gemini.Temperature)
	assert.Zero(t, *cfg.Gemini.Temperature)

	gen := cfg.ProviderConfig().Generate
	require.NotNil(t, gen.Temperature, "an explicit 0 must reach the provider")
	assert.Zero(t, *gen.Temperature)

	t.Setenv("REMIX_GEMINI_TEMPERATURE", "0.7")
	cfg, err = Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Gemini.Temperature)
	assert.InDelta(t, 0.7, *cfg.Gemini.Temperature, 1e-6)
}

func TestValidateModel(t *testing.T) {
	singleImage := remix.ModelInfo{
		Name:         "single",
		APIModelName: "single-image-model",
		Capabilities: remix.ModelCapabilities{MaxInputImages: 1},
	}
	lookup := func(name string) (remix.ModelInfo, bool) {
		if name == singleImage.APIModelName {
			return singleImage, true
		}
		return gemini.LookupModel(name)
	}

	err := validateModel("single-image-model", lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot combine two images")

	assert.NoError(t, validateModel(gemini.DefaultModel, lookup))
	assert.NoError(t, validateModel("some-future-model", lookup))
}

func ptr[T any](v T) *T {
	return &v
}

func TestConfig_Redacted(t *testing.T) {
	cfg := Config{Gemini: GeminiConfig{APIKey: "secret"}}

	assert.Equal(t, "********", cfg.Redacted().Gemini.APIKey)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
}
