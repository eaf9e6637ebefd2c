// Package syncloop runs the long-poll that follows a completed login.
//
// Each iteration asks the push endpoint for a (retcode, selector) pair:
//
//	retcode != 0            -> terminated, Run returns *common.SessionTerminatedError
//	retcode == 0, sel == 2  -> fetch new messages, replace the cursor, poll again
//	retcode == 0, otherwise -> poll again
//
// There is no backoff: the server holds each request open and that hold is
// the pacing. An optional rate limit can be configured on top.
package syncloop

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/webwx/internal/client/endpoint"
	"github.com/dmitrijs2005/webwx/internal/client/scrape"
	"github.com/dmitrijs2005/webwx/internal/client/session"
	"github.com/dmitrijs2005/webwx/internal/client/transport"
	"github.com/dmitrijs2005/webwx/internal/common"
	"github.com/dmitrijs2005/webwx/internal/logging"
	"github.com/dmitrijs2005/webwx/internal/timex"
	"golang.org/x/time/rate"
)

type Config struct {
	Endpoints endpoint.Endpoints
	// Rate caps sync checks per second; 0 means unlimited.
	Rate float64
}

// CursorHook runs after every cursor replacement. Its error is logged only.
type CursorHook func(ctx context.Context, store *session.Store) error

type Loop struct {
	cfg      Config
	client   transport.Client
	store    *session.Store
	log      logging.Logger
	clock    timex.Clock
	limiter  *rate.Limiter
	onCursor CursorHook
}

type Option func(*Loop)

func WithClock(c timex.Clock) Option {
	return func(l *Loop) { l.clock = c }
}

func WithCursorHook(h CursorHook) Option {
	return func(l *Loop) { l.onCursor = h }
}

func New(cfg Config, client transport.Client, store *session.Store, log logging.Logger, opts ...Option) *Loop {
	if log == nil {
		log = logging.Discard()
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	l := &Loop{
		cfg:     cfg,
		client:  client,
		store:   store,
		log:     log,
		clock:   timex.SystemClock,
		limiter: rate.NewLimiter(limit, 1),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Run polls until the server ends the session, an error occurs or ctx is done.
// It never returns nil.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.store.RequireAuth(); err != nil {
		return err
	}
	l.log.Info(ctx, "sync loop started", "synckey", l.store.SyncKeyString())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}

		retcode, selector, err := l.Check(ctx)
		if err != nil {
			return fmt.Errorf("sync check: %w", err)
		}
		l.log.Debug(ctx, "sync check", "retcode", retcode, "selector", selector)

		if retcode != 0 {
			l.log.Info(ctx, "session ended by server", "retcode", retcode, "selector", selector)
			return &common.SessionTerminatedError{Retcode: retcode, Selector: selector}
		}
		if selector == common.SyncSelectorNewMessage {
			if err := l.Fetch(ctx); err != nil {
				return fmt.Errorf("sync fetch: %w", err)
			}
		}
	}
}

// Check performs one long-poll against the push subdomain.
func (l *Loop) Check(ctx context.Context) (retcode, selector int, err error) {
	url := l.cfg.Endpoints.SyncCheck(l.store.Credentials(), l.store.SyncKeyString(), l.clock.Millis())
	resp, err := l.client.Get(ctx, url, l.cfg.Endpoints.PushHeaders(l.store.Cookie()))
	if err != nil {
		return 0, 0, err
	}
	return scrape.SyncCheck(resp.Body)
}

// Fetch posts the message check and replaces the cursor with the server's
// SyncCheckKey.
func (l *Loop) Fetch(ctx context.Context) error {
	if err := l.store.RequireAuth(); err != nil {
		return err
	}
	resp, err := l.client.Post(ctx, l.cfg.Endpoints.WebSync(l.store.Credentials()),
		l.cfg.Endpoints.SessionHeaders(l.store.Cookie()), l.store.MessageCheckPayload())
	if err != nil {
		return err
	}

	r, err := scrape.Sync(resp.Body)
	if err != nil {
		return err
	}
	if err := l.store.SetSyncKey(r.SyncCheckKey); err != nil {
		return err
	}
	l.log.Debug(ctx, "cursor replaced", "synckey", l.store.SyncKeyString(), "messages", r.AddMsgCount)

	if l.onCursor != nil {
		if err := l.onCursor(ctx, l.store); err != nil {
			l.log.Warn(ctx, "cursor hook failed", "error", err)
		}
	}
	return nil
}
