package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_LocalFile(t *testing.T) {
	cfg, err := Read("../../config/local.yaml")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 20, cfg.Polls.PageSize)
	assert.Equal(t, 3*time.Second, cfg.Voting.SuccessDisplay)
	assert.Equal(t, 8080, cfg.DevAPI.Port)
}

func TestRead_RequiresBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: dev\n"), 0o600))
	t.Setenv("POLLBOARD_API_URL", "")
	require.NoError(t, os.Unsetenv("POLLBOARD_API_URL"))

	_, err := Read(path)
	assert.Error(t, err)
}

func TestRead_EnvOverride(t *testing.T) {
	t.Setenv("POLLBOARD_API_URL", "https://polls.example.com/api/v1")

	cfg, err := Read("../../config/local.yaml")
	require.NoError(t, err)
	assert.Equal(t, "https://polls.example.com/api/v1", cfg.API.BaseURL)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFetchPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/pollboard.yaml")

	path, err := FetchPath(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-config", "./local.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "./local.yaml", path)

	path, err = FetchPath(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)
	assert.Equal(t, "/etc/pollboard.yaml", path)
}
