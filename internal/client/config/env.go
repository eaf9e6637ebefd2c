package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/dmitrijs2005/webwx/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	envPrefix      = "WEBWX_"
	defaultEnvFile = ".env"
)

// parseEnv overlays cfg with WEBWX_* variables. Values from the process
// environment win over the dotenv file (-e / -env, or ./.env when present).
func parseEnv(cfg *Config, args []string, lookup func(string) (string, bool)) error {
	file, err := readEnvFile(flagx.EnvFilePath(args))
	if err != nil {
		return err
	}

	get := func(name string) (string, bool) {
		key := envPrefix + name
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}

	var errs []error
	str := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := get(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	str("LOGIN_BASE_URL", &cfg.LoginBaseURL)
	str("QR_BASE_URL", &cfg.QRBaseURL)
	str("WEB_BASE_URL", &cfg.WebBaseURL)
	str("PUSH_BASE_URL", &cfg.PushBaseURL)
	str("APP_ID", &cfg.AppID)
	str("LANG", &cfg.Lang)
	str("QR_IMAGE_PATH", &cfg.QRImagePath)
	str("DATABASE_PATH", &cfg.DatabasePath)
	dur("HOST_POLL_INTERVAL", &cfg.HostPollInterval)
	dur("HTTP_TIMEOUT", &cfg.HTTPTimeout)
	num("LOGIN_POLL_ATTEMPTS", &cfg.LoginPollAttempts)
	num("TRANSPORT_RETRIES", &cfg.TransportRetries)
	dur("RETRY_BASE_DELAY", &cfg.RetryBaseDelay)
	if v, ok := get("SYNC_CHECK_RATE"); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSYNC_CHECK_RATE: %w", envPrefix, err))
		} else {
			cfg.SyncCheckRate = r
		}
	}
	str("ON_SESSION_END", &cfg.OnSessionEnd)
	num("MAX_RELOGINS", &cfg.MaxRelogins)
	if v, ok := get("RESUME_SESSION"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRESUME_SESSION: %w", envPrefix, err))
		} else {
			cfg.ResumeSession = b
		}
	}
	str("SESSION_PASSPHRASE", &cfg.SessionPassphrase)
	str("LOG_LEVEL", &cfg.LogLevel)

	return errors.Join(errs...)
}

// readEnvFile loads path, or ./.env when path is empty. Only an explicitly
// named file is required to exist.
func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}
