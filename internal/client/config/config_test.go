package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/webwx/internal/client/endpoint"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, endpoint.Default(), c.Endpoints())
	assert.Equal(t, time.Second, c.HostPollInterval)
	assert.Equal(t, 0, c.TransportRetries)
	assert.Equal(t, "stop", c.OnSessionEnd)
	assert.False(t, c.ResumeSession)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown policy", func(c *Config) { c.OnSessionEnd = "restart" }},
		{"empty qr path", func(c *Config) { c.QRImagePath = "" }},
		{"zero poll interval", func(c *Config) { c.HostPollInterval = 0 }},
		{"zero login attempts", func(c *Config) { c.LoginPollAttempts = 0 }},
		{"negative retries", func(c *Config) { c.TransportRetries = -1 }},
		{"negative rate", func(c *Config) { c.SyncCheckRate = -2 }},
		{"resume without passphrase", func(c *Config) { c.ResumeSession = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"log_level":          "warn",
		"database_path":      "json.db",
		"host_poll_interval": "5s",
		"max_relogins":       7,
	})
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("WEBWX_LOG_LEVEL=error\nWEBWX_DATABASE_PATH=file.db\n"), 0o600))

	args := []string{"-c", jsonPath, "-e", envPath, "-l", "debug"}
	cfg, err := load(args, envMap(map[string]string{"WEBWX_DATABASE_PATH": "proc.db"}))
	require.NoError(t, err)

	want := defaults()
	// flag beats env file
	want.LogLevel = "debug"
	// process env beats env file and JSON
	want.DatabasePath = "proc.db"
	want.HostPollInterval = 5 * time.Second
	want.MaxRelogins = 7

	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load([]string{"-s", "sometimes"}, noEnv)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoad_MissingExplicitFiles(t *testing.T) {
	_, err := load([]string{"-c", "/nonexistent/cfg.json"}, noEnv)
	assert.Error(t, err)

	_, err = load([]string{"-e", "/nonexistent/x.env"}, noEnv)
	assert.Error(t, err)
}
