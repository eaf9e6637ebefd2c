package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	cfg := defaults()
	err := parseEnv(cfg, []string{"-e", filepath.Join(t.TempDir(), "missing.env")}, noEnv)
	require.Error(t, err, "an explicitly named env file must exist")

	cfg = defaults()
	require.NoError(t, parseEnv(cfg, nil, envMap(map[string]string{
		"WEBWX_HTTP_TIMEOUT":       "15s",
		"WEBWX_TRANSPORT_RETRIES":  "3",
		"WEBWX_SYNC_CHECK_RATE":    "2.5",
		"WEBWX_RESUME_SESSION":     "true",
		"WEBWX_SESSION_PASSPHRASE": "hunter2",
		"WEBWX_ON_SESSION_END":     "relogin",
		"UNRELATED":                "x",
	})))

	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.TransportRetries)
	assert.Equal(t, 2.5, cfg.SyncCheckRate)
	assert.True(t, cfg.ResumeSession)
	assert.Equal(t, "hunter2", cfg.SessionPassphrase)
	assert.Equal(t, "relogin", cfg.OnSessionEnd)
}

func TestParseEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"# local dev\nWEBWX_QR_IMAGE_PATH=/tmp/dev-qr.png\nWEBWX_MAX_RELOGINS=9\n"), 0o600))

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, []string{"-env=" + path}, envMap(map[string]string{"WEBWX_MAX_RELOGINS": "2"})))

	assert.Equal(t, "/tmp/dev-qr.png", cfg.QRImagePath)
	assert.Equal(t, 2, cfg.MaxRelogins)
}

func TestParseEnv_BadValues(t *testing.T) {
	cfg := defaults()
	err := parseEnv(cfg, nil, envMap(map[string]string{
		"WEBWX_HOST_POLL_INTERVAL": "often",
		"WEBWX_MAX_RELOGINS":       "lots",
		"WEBWX_RESUME_SESSION":     "maybe",
	}))
	require.Error(t, err)
	assert.ErrorContains(t, err, "WEBWX_HOST_POLL_INTERVAL")
	assert.ErrorContains(t, err, "WEBWX_MAX_RELOGINS")
	assert.ErrorContains(t, err, "WEBWX_RESUME_SESSION")
	assert.Equal(t, time.Second, cfg.HostPollInterval)
}
