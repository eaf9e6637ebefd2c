package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/webwx/internal/flagx"
)

var knownFlags = []string{"-q", "-d", "-l", "-i", "-t", "-n", "-r", "-s", "-m", "-resume"}

// parseFlags overlays cfg with command-line flags.
//
//	-q string    QR image path
//	-d string    sqlite database path
//	-l string    log level (debug, info, warn, error)
//	-i duration  host event poll interval
//	-t duration  per-request HTTP timeout
//	-n int       login confirmation poll attempts
//	-r int       transport retries for transient failures
//	-s string    session end policy (stop, relogin)
//	-m int       max re-logins under the relogin policy
//	-resume      resume the stored session instead of logging in
//
// Boolean flags take the -resume or -resume=true form.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("webwx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.QRImagePath, "q", cfg.QRImagePath, "qr image path")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "sqlite database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.HostPollInterval, "i", cfg.HostPollInterval, "host event poll interval")
	fs.DurationVar(&cfg.HTTPTimeout, "t", cfg.HTTPTimeout, "http timeout")
	fs.IntVar(&cfg.LoginPollAttempts, "n", cfg.LoginPollAttempts, "login poll attempts")
	fs.IntVar(&cfg.TransportRetries, "r", cfg.TransportRetries, "transport retries")
	fs.StringVar(&cfg.OnSessionEnd, "s", cfg.OnSessionEnd, "session end policy")
	fs.IntVar(&cfg.MaxRelogins, "m", cfg.MaxRelogins, "max relogins")
	fs.BoolVar(&cfg.ResumeSession, "resume", cfg.ResumeSession, "resume stored session")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
