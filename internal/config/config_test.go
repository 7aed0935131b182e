package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/isometry/ask-relay/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	require.NoError(t, config.LoadFromFile(empty))
	require.NoError(t, config.SetDefaults())

	assert.Equal(t, config.ModeService, config.Global.Mode)
	assert.Equal(t, "https://api.openai.com/v1", config.OpenAI.BaseURL)
	assert.Equal(t, "gpt-4o-mini", config.OpenAI.Model)
	assert.InDelta(t, 0.6, config.OpenAI.Temperature, 1e-9)
	assert.Equal(t, 30*time.Second, config.OpenAI.Timeout)
	assert.Equal(t, 10*time.Second, config.DingTalk.Timeout)
	assert.Equal(t, "env", config.Credentials.Source)
	assert.Equal(t, 4000, config.Relay.MaxPromptLength)
	assert.Equal(t, "8080", config.Service.Port)
	assert.Equal(t, "api-gateway-v2", config.Lambda.PayloadType)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
global:
  mode: lambda
openai:
  model: gpt-4o
  timeout: 5s
credentials:
  source: ssm
  ssmKey: /relay/creds
lambda:
  payloadType: lambda-url
`), 0o600))

	require.NoError(t, config.LoadFromFile(path))
	require.NoError(t, config.SetDefaults())

	assert.Equal(t, config.ModeLambda, config.Global.Mode)
	assert.Equal(t, "gpt-4o", config.OpenAI.Model)
	assert.Equal(t, 5*time.Second, config.OpenAI.Timeout)
	assert.Equal(t, "https://api.openai.com/v1", config.OpenAI.BaseURL)
	assert.Equal(t, "ssm", config.Credentials.Source)
	assert.Equal(t, "/relay/creds", config.Credentials.SSMKey)
	assert.Equal(t, "lambda-url", config.Lambda.PayloadType)
}

func TestLoadFromFile_Temperature(t *testing.T) {
	testCases := []struct {
		Name     string
		Content  string
		Expected float64
	}{
		{
			Name:     "explicit_zero",
			Content:  "openai:\n  temperature: 0\n",
			Expected: 0,
		},
		{
			Name:     "explicit_value",
			Content:  "openai:\n  temperature: 0.9\n",
			Expected: 0.9,
		},
		{
			Name:     "absent",
			Content:  "openai:\n  model: gpt-4o\n",
			Expected: 0.6,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.Content), 0o600))

			require.NoError(t, config.LoadFromFile(path))
			require.NoError(t, config.SetDefaults())

			assert.InDelta(t, tc.Expected, config.OpenAI.Temperature, 1e-9)
		})
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	testCases := []struct {
		Name    string
		Path    func(t *testing.T) string
		WantErr bool
	}{
		{
			Name: "empty_path",
			Path: func(*testing.T) string { return "" },
		},
		{
			Name: "missing_file",
			Path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
		},
		{
			Name:    "directory",
			Path:    func(t *testing.T) string { return t.TempDir() },
			WantErr: true,
		},
		{
			Name: "invalid_yaml",
			Path: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte("global: [unterminated"), 0o600))
				return path
			},
			WantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := config.LoadFromFile(tc.Path(t))
			if tc.WantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFilePath(t *testing.T) {
	t.Setenv(config.FileEnv, "/etc/ask-relay.yaml")
	assert.Equal(t, "/etc/ask-relay.yaml", config.FilePath())
}
