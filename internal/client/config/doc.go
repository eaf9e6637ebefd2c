// Package config loads runtime configuration for the webwx client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. WEBWX_* environment variables, optionally read from a dotenv file
//     (-e / -env, or ./.env when present). The process environment wins
//     over the file.
//  4. Command-line flags (see parseFlags).
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "qr_image_path": "/tmp/qr.png",
//	  "database_path": "webwx.db",
//	  "host_poll_interval": "1s",
//	  "http_timeout": "60s",
//	  "login_poll_attempts": 20,
//	  "transport_retries": 0,
//	  "sync_check_rate": 0,
//	  "on_session_end": "relogin",
//	  "max_relogins": 3,
//	  "log_level": "debug"
//	}
//
// The session passphrase is only read from WEBWX_SESSION_PASSPHRASE.
package config
