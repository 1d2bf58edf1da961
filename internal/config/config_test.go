package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_API_BASE_URL", "PSEUDOSCRIBE_MODEL",
		"PSEUDOSCRIBE_LOG_LEVEL", "PSEUDOSCRIBE_LOG_FORMAT", "PSEUDOSCRIBE_TIMEOUT",
		"PSEUDOSCRIBE_JSON_MODE", "PSEUDOSCRIBE_REQUESTS_PER_MINUTE", "PSEUDOSCRIBE_LENIENT",
		"PSEUDOSCRIBE_TEMPERATURE", "PSEUDOSCRIBE_MAX_OUTPUT_TOKENS",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.Provider.Model)
	assert.Equal(t, 60*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "compact", cfg.Log.Format)
	assert.False(t, cfg.Recovery.Lenient)
	assert.Zero(t, cfg.Provider.Temperature)
	assert.Zero(t, cfg.Provider.MaxOutputTokens)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "pseudoscribe.yaml", `
provider:
  api_key: from-file
  model: gemini-1.5-pro
  timeout: 15s
  json_mode: true
  temperature: 0.4
  max_output_tokens: 1024
limits:
  requests_per_minute: 30
recovery:
  lenient: true
log:
  level: debug
  format: json
`)
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("PSEUDOSCRIBE_REQUESTS_PER_MINUTE", "5")
	t.Setenv("PSEUDOSCRIBE_MAX_OUTPUT_TOKENS", "4096")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Provider.APIKey, "environment wins over the file")
	assert.Equal(t, "gemini-1.5-pro", cfg.Provider.Model)
	assert.Equal(t, 15*time.Second, cfg.Provider.Timeout)
	assert.True(t, cfg.Provider.JSONMode)
	assert.InDelta(t, 0.4, cfg.Provider.Temperature, 1e-6)
	assert.Equal(t, 4096, cfg.Provider.MaxOutputTokens)
	assert.Equal(t, 5, cfg.Limits.RequestsPerMinute)
	assert.True(t, cfg.Recovery.Lenient)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "GEMINI_API_KEY=dotenv-key\nPSEUDOSCRIBE_LENIENT=true\n")
	// godotenv sets variables for the rest of the process; make sure the
	// test restores them.
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	t.Setenv("PSEUDOSCRIBE_LENIENT", "")
	os.Unsetenv("PSEUDOSCRIBE_LENIENT")

	cfg, err := Load("", envFile, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.Provider.APIKey)
	assert.True(t, cfg.Recovery.Lenient)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad yaml", yaml: "provider: [", wantErr: "failed to parse config file"},
		{name: "empty model", yaml: "provider:\n  model: ' '", wantErr: "provider.model must not be empty"},
		{name: "negative rate", yaml: "limits:\n  requests_per_minute: -1", wantErr: "requests_per_minute must not be negative"},
		{name: "temperature too high", yaml: "provider:\n  temperature: 2.5", wantErr: "provider.temperature must be within 0 and 2"},
		{name: "negative max tokens", yaml: "provider:\n  max_output_tokens: -10", wantErr: "max_output_tokens must not be negative"},
		{name: "bad temperature env", env: map[string]string{"PSEUDOSCRIBE_TEMPERATURE": "warm"}, wantErr: "PSEUDOSCRIBE_TEMPERATURE"},
		{name: "bad max tokens env", env: map[string]string{"PSEUDOSCRIBE_MAX_OUTPUT_TOKENS": "lots"}, wantErr: "PSEUDOSCRIBE_MAX_OUTPUT_TOKENS"},
		{name: "unknown format", yaml: "log:\n  format: xml", wantErr: `log.format "xml"`},
		{name: "unknown level", yaml: "log:\n  level: loud", wantErr: "log.level"},
		{name: "bad timeout env", env: map[string]string{"PSEUDOSCRIBE_TIMEOUT": "soon"}, wantErr: "PSEUDOSCRIBE_TIMEOUT"},
		{name: "bad bool env", env: map[string]string{"PSEUDOSCRIBE_JSON_MODE": "maybe"}, wantErr: "PSEUDOSCRIBE_JSON_MODE"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			path := ""
			if testCase.yaml != "" {
				path = writeFile(t, "c.yaml", testCase.yaml)
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
