package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: "9090"
llm:
  base_url: https://generativelanguage.example.com/v1
  api_key: dummy
  model: gemini-flash-lite-latest
storage:
  path: /tmp/abys-test.db
log:
  level: debug
`

// TestLoad verifies that Load unmarshals a full config file named by CONFIG_PATH.
func TestLoad(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	require.NoError(t, err)
	_, err = tmp.WriteString(sampleConfig)
	require.NoError(t, err)
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "https://generativelanguage.example.com/v1", cfg.LLM.BaseURL)
	require.Equal(t, "dummy", cfg.LLM.APIKey)
	require.Equal(t, "gemini-flash-lite-latest", cfg.LLM.Model)
	require.Equal(t, "/tmp/abys-test.db", cfg.Storage.Path)
	require.Equal(t, "debug", cfg.Log.Level)
}

// TestLoad_Defaults verifies that a missing config file yields the defaults.
func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "gemini-flash-lite-latest", cfg.LLM.Model)
	require.Equal(t, "abys.db", cfg.Storage.Path)
	require.Equal(t, "info", cfg.Log.Level)
}

// TestLoad_PartialFile verifies that unset keys fall back to defaults.
func TestLoad_PartialFile(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	require.NoError(t, err)
	_, err = tmp.WriteString("llm:\n  api_key: something\n")
	require.NoError(t, err)
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "something", cfg.LLM.APIKey)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "info", cfg.Log.Level)
}
