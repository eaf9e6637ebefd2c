package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/webwx/internal/client/endpoint"
	"github.com/dmitrijs2005/webwx/internal/client/engine"
)

// Config holds runtime settings for the webwx client.
type Config struct {
	LoginBaseURL string
	QRBaseURL    string
	WebBaseURL   string
	PushBaseURL  string
	AppID        string
	Lang         string

	QRImagePath  string
	DatabasePath string

	HostPollInterval  time.Duration
	HTTPTimeout       time.Duration
	LoginPollAttempts int
	TransportRetries  int
	RetryBaseDelay    time.Duration
	SyncCheckRate     float64

	OnSessionEnd      string
	MaxRelogins       int
	ResumeSession     bool
	SessionPassphrase string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	e := endpoint.Default()
	c.LoginBaseURL = e.LoginBase
	c.QRBaseURL = e.QRBase
	c.WebBaseURL = e.WebBase
	c.PushBaseURL = e.PushBase
	c.AppID = e.AppID
	c.Lang = e.Lang

	c.QRImagePath = "/tmp/qr.png"
	c.DatabasePath = "webwx.db"

	c.HostPollInterval = time.Second
	c.HTTPTimeout = 60 * time.Second
	c.LoginPollAttempts = 20
	c.TransportRetries = 0
	c.RetryBaseDelay = 500 * time.Millisecond
	c.SyncCheckRate = 0

	c.OnSessionEnd = string(engine.PolicyStop)
	c.MaxRelogins = 3
	c.ResumeSession = false
	c.SessionPassphrase = ""

	c.LogLevel = "info"
}

func (c *Config) Endpoints() endpoint.Endpoints {
	return endpoint.Endpoints{
		LoginBase: c.LoginBaseURL,
		QRBase:    c.QRBaseURL,
		WebBase:   c.WebBaseURL,
		PushBase:  c.PushBaseURL,
		AppID:     c.AppID,
		Lang:      c.Lang,
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := engine.ParsePolicy(c.OnSessionEnd); err != nil {
		errs = append(errs, err)
	}
	if c.QRImagePath == "" {
		errs = append(errs, errors.New("qr image path is empty"))
	}
	if c.HostPollInterval <= 0 {
		errs = append(errs, fmt.Errorf("host poll interval must be positive, got %s", c.HostPollInterval))
	}
	if c.LoginPollAttempts <= 0 {
		errs = append(errs, fmt.Errorf("login poll attempts must be positive, got %d", c.LoginPollAttempts))
	}
	if c.TransportRetries < 0 {
		errs = append(errs, fmt.Errorf("transport retries must not be negative, got %d", c.TransportRetries))
	}
	if c.SyncCheckRate < 0 {
		errs = append(errs, fmt.Errorf("sync check rate must not be negative, got %v", c.SyncCheckRate))
	}
	if c.ResumeSession && c.SessionPassphrase == "" {
		errs = append(errs, errors.New("resume requires a session passphrase"))
	}
	return errors.Join(errs...)
}

// LoadConfig applies defaults, then overlays the JSON file, the environment
// and command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, args, lookup); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
