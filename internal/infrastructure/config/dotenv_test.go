package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"SLACK_WEBHOOK_URL=https://hooks.example.com/dotenv\nLOG_LEVEL=debug\n",
	), 0o600))

	t.Setenv("SLACK_WEBHOOK_URL", "")
	os.Unsetenv("SLACK_WEBHOOK_URL")
	t.Setenv("LOG_LEVEL", "warn")

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))

	assert.Equal(t, "https://hooks.example.com/dotenv", os.Getenv("SLACK_WEBHOOK_URL"))
	assert.Equal(t, "warn", os.Getenv("LOG_LEVEL"), "existing variables win")
}

func TestLoadDotEnv_Malformed(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("KEY=\"unterminated\n"), 0o600))

	assert.Error(t, LoadDotEnv(envFile))
}
