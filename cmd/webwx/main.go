// Command webwx logs into the web IM service by QR code and follows the
// session's notification stream until the server ends it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/webwx/internal/buildinfo"
	"github.com/dmitrijs2005/webwx/internal/client/cli"
	"github.com/dmitrijs2005/webwx/internal/client/config"
	"github.com/dmitrijs2005/webwx/internal/client/engine"
	"github.com/dmitrijs2005/webwx/internal/client/events"
	"github.com/dmitrijs2005/webwx/internal/client/login"
	"github.com/dmitrijs2005/webwx/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/webwx/internal/client/services"
	"github.com/dmitrijs2005/webwx/internal/client/session"
	"github.com/dmitrijs2005/webwx/internal/client/storage"
	"github.com/dmitrijs2005/webwx/internal/client/syncloop"
	"github.com/dmitrijs2005/webwx/internal/client/transport"
	"github.com/dmitrijs2005/webwx/internal/logging"
	"github.com/dmitrijs2005/webwx/internal/timex"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "webwx: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer db.Close()

	// a nil Vault turns persistence off
	var vault engine.Vault
	if cfg.SessionPassphrase != "" {
		svc, err := services.NewSessionService(metadata.NewSQLiteRepository(db), cfg.SessionPassphrase, timex.SystemClock)
		if err != nil {
			return err
		}
		vault = svc
	}

	policy, err := engine.ParsePolicy(cfg.OnSessionEnd)
	if err != nil {
		return err
	}

	client := transport.New(
		transport.WithTimeout(cfg.HTTPTimeout),
		transport.WithRetry(uint64(cfg.TransportRetries), cfg.RetryBaseDelay),
		transport.WithLogger(log.With("component", "transport")),
	)
	store := session.NewStore(timex.SystemClock)
	queue := events.NewDispatcher()
	eps := cfg.Endpoints()

	handshake := login.New(login.Config{
		Endpoints:    eps,
		QRImagePath:  cfg.QRImagePath,
		PollAttempts: cfg.LoginPollAttempts,
	}, client, store, queue, log.With("component", "login"))

	loop := syncloop.New(syncloop.Config{
		Endpoints: eps,
		Rate:      cfg.SyncCheckRate,
	}, client, store, log.With("component", "sync"), syncloop.WithCursorHook(engine.PersistCursor(vault)))

	eng := engine.New(engine.Config{
		OnSessionEnd: policy,
		MaxRelogins:  cfg.MaxRelogins,
		Resume:       cfg.ResumeSession,
	}, store, handshake, loop, queue, vault, log.With("component", "engine"))

	if err := eng.Start(ctx); err != nil {
		return err
	}

	app := cli.NewApp(queue.Events, eng, log.With("component", "host"),
		cli.WithPollInterval(cfg.HostPollInterval),
		cli.WithContacts(services.NewContactService(db, timex.SystemClock)),
	)
	err = app.Run(ctx)

	// release the database only after the engine's last write
	stop()
	_ = eng.Wait()
	return err
}
