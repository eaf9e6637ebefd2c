package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/webwx/internal/flagx"
	"github.com/dmitrijs2005/webwx/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointers tell
// absent keys from zero values, so a file only overrides what it names.
type JsonConfig struct {
	LoginBaseURL      *string         `json:"login_base_url"`
	QRBaseURL         *string         `json:"qr_base_url"`
	WebBaseURL        *string         `json:"web_base_url"`
	PushBaseURL       *string         `json:"push_base_url"`
	AppID             *string         `json:"app_id"`
	Lang              *string         `json:"lang"`
	QRImagePath       *string         `json:"qr_image_path"`
	DatabasePath      *string         `json:"database_path"`
	HostPollInterval  *timex.Duration `json:"host_poll_interval"`
	HTTPTimeout       *timex.Duration `json:"http_timeout"`
	LoginPollAttempts *int            `json:"login_poll_attempts"`
	TransportRetries  *int            `json:"transport_retries"`
	RetryBaseDelay    *timex.Duration `json:"retry_base_delay"`
	SyncCheckRate     *float64        `json:"sync_check_rate"`
	OnSessionEnd      *string         `json:"on_session_end"`
	MaxRelogins       *int            `json:"max_relogins"`
	ResumeSession     *bool           `json:"resume_session"`
	LogLevel          *string         `json:"log_level"`
}

// parseJSON overlays cfg with the file named by -c / -config, if any.
// The passphrase comes only from the environment.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.LoginBaseURL, jc.LoginBaseURL)
	setString(&cfg.QRBaseURL, jc.QRBaseURL)
	setString(&cfg.WebBaseURL, jc.WebBaseURL)
	setString(&cfg.PushBaseURL, jc.PushBaseURL)
	setString(&cfg.AppID, jc.AppID)
	setString(&cfg.Lang, jc.Lang)
	setString(&cfg.QRImagePath, jc.QRImagePath)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setDuration(&cfg.HostPollInterval, jc.HostPollInterval)
	setDuration(&cfg.HTTPTimeout, jc.HTTPTimeout)
	setInt(&cfg.LoginPollAttempts, jc.LoginPollAttempts)
	setInt(&cfg.TransportRetries, jc.TransportRetries)
	setDuration(&cfg.RetryBaseDelay, jc.RetryBaseDelay)
	if jc.SyncCheckRate != nil {
		cfg.SyncCheckRate = *jc.SyncCheckRate
	}
	setString(&cfg.OnSessionEnd, jc.OnSessionEnd)
	setInt(&cfg.MaxRelogins, jc.MaxRelogins)
	if jc.ResumeSession != nil {
		cfg.ResumeSession = *jc.ResumeSession
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
