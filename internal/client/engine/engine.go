// Package engine supervises the handshake and the sync loop.
//
// Start runs the handshake on its own goroutine; a successful handshake
// spawns the sync loop in the same errgroup. Done and Err make the outcome
// observable, and fatal failures are also delivered to the host as an
// events.EngineStopped event.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/webwx/internal/client/events"
	"github.com/dmitrijs2005/webwx/internal/client/session"
	"github.com/dmitrijs2005/webwx/internal/client/syncloop"
	"github.com/dmitrijs2005/webwx/internal/common"
	"github.com/dmitrijs2005/webwx/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Policy decides what happens after the server ends a session.
type Policy string

const (
	PolicyStop    Policy = "stop"
	PolicyRelogin Policy = "relogin"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyStop, PolicyRelogin:
		return p, nil
	case "":
		return PolicyStop, nil
	default:
		return "", fmt.Errorf("unknown session end policy %q", s)
	}
}

var ErrAlreadyStarted = errors.New("engine already started")

// Runner is a blocking task: the handshake or the sync loop.
type Runner interface {
	Run(ctx context.Context) error
}

// Emitter receives host-bound events.
type Emitter interface {
	Emit(events.Event)
}

// Vault persists the session between runs.
type Vault interface {
	// Load returns nil, nil when nothing is stored.
	Load(ctx context.Context) (*session.Snapshot, error)
	Save(ctx context.Context, snap session.Snapshot) error
	Clear(ctx context.Context) error
}

type Config struct {
	OnSessionEnd Policy
	// MaxRelogins bounds fresh handshakes after a session end under PolicyRelogin.
	MaxRelogins int
	// Resume skips the handshake when the vault holds a session.
	Resume bool
}

type Engine struct {
	cfg       Config
	store     *session.Store
	handshake Runner
	loop      Runner
	out       Emitter
	vault     Vault
	log       logging.Logger

	startOnce sync.Once
	done      chan struct{}
	err       error
}

// New wires the engine. vault may be nil, which disables persistence and resume.
func New(cfg Config, store *session.Store, handshake, loop Runner, out Emitter, vault Vault, log logging.Logger) *Engine {
	if cfg.OnSessionEnd == "" {
		cfg.OnSessionEnd = PolicyStop
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{
		cfg:       cfg,
		store:     store,
		handshake: handshake,
		loop:      loop,
		out:       out,
		vault:     vault,
		log:       log,
		done:      make(chan struct{}),
	}
}

// Start launches the engine and returns immediately. Cancel ctx to stop it.
func (e *Engine) Start(ctx context.Context) error {
	err := ErrAlreadyStarted
	e.startOnce.Do(func() {
		err = nil

		g, gctx := errgroup.WithContext(ctx)
		g.Go(e.guard(gctx, func() error { return e.runSession(gctx, g, 0, e.cfg.Resume) }))

		go func() {
			e.err = g.Wait()
			close(e.done)
		}()
	})
	return err
}

// Done is closed once every engine goroutine has returned.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Err is the terminal outcome, valid after Done is closed: nil after a
// session ended under PolicyStop, ctx.Err() on cancellation, the failure
// otherwise.
func (e *Engine) Err() error {
	select {
	case <-e.done:
		return e.err
	default:
		return nil
	}
}

// Wait blocks until the engine stops and returns Err.
func (e *Engine) Wait() error {
	<-e.done
	return e.err
}

// PersistCursor returns a sync loop hook saving the session to v after
// every cursor change. A nil v yields a no-op hook.
func PersistCursor(v Vault) syncloop.CursorHook {
	return func(ctx context.Context, s *session.Store) error {
		if v == nil {
			return nil
		}
		return v.Save(ctx, s.Snapshot())
	}
}

// guard turns a panic into an error so it reaches Wait and the host.
func (e *Engine) guard(ctx context.Context, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = e.fail(ctx, fmt.Errorf("panic: %v", r))
			}
		}()
		return fn()
	}
}

// runSession logs in (or resumes) and hands off to the sync loop.
func (e *Engine) runSession(ctx context.Context, g *errgroup.Group, relogins int, tryResume bool) error {
	resumed := false
	if tryResume {
		var err error
		if resumed, err = e.resume(ctx); err != nil {
			e.log.Warn(ctx, "resume failed, logging in", "error", err)
		}
	}

	if !resumed {
		e.store.Reset()
		if err := e.handshake.Run(ctx); err != nil {
			return e.fail(ctx, fmt.Errorf("handshake: %w", err))
		}
		e.persist(ctx)
	}

	g.Go(e.guard(ctx, func() error { return e.runSync(ctx, g, relogins, resumed) }))
	return nil
}

func (e *Engine) runSync(ctx context.Context, g *errgroup.Group, relogins int, resumed bool) error {
	err := e.loop.Run(ctx)

	var st *common.SessionTerminatedError
	if !errors.As(err, &st) {
		return e.fail(ctx, err)
	}
	e.forget(ctx)

	if resumed {
		e.log.Info(ctx, "resumed session is no longer valid", "retcode", st.Retcode)
		g.Go(e.guard(ctx, func() error { return e.runSession(ctx, g, relogins, false) }))
		return nil
	}

	e.out.Emit(events.SessionEnded{Retcode: st.Retcode, Selector: st.Selector})

	if e.cfg.OnSessionEnd == PolicyRelogin && relogins < e.cfg.MaxRelogins {
		e.log.Info(ctx, "session ended, logging in again", "relogin", relogins+1, "max", e.cfg.MaxRelogins)
		g.Go(e.guard(ctx, func() error { return e.runSession(ctx, g, relogins+1, false) }))
		return nil
	}
	e.log.Info(ctx, "session ended", "retcode", st.Retcode, "selector", st.Selector)
	return nil
}

// fail reports err to the host unless the engine is being cancelled.
func (e *Engine) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	e.log.Error(ctx, "engine stopped", "error", err)
	e.out.Emit(events.EngineStopped{Err: err})
	return err
}

func (e *Engine) resume(ctx context.Context) (bool, error) {
	if e.vault == nil {
		return false, nil
	}
	snap, err := e.vault.Load(ctx)
	if err != nil || snap == nil {
		return false, err
	}
	e.store.Restore(*snap)
	if err := e.store.RequireAuth(); err != nil {
		e.store.Reset()
		return false, err
	}
	e.log.Info(ctx, "session resumed", "user", e.store.UserName())
	return true, nil
}

func (e *Engine) persist(ctx context.Context) {
	if e.vault == nil {
		return
	}
	if err := e.vault.Save(ctx, e.store.Snapshot()); err != nil {
		e.log.Warn(ctx, "persist session", "error", err)
	}
}

func (e *Engine) forget(ctx context.Context) {
	if e.vault == nil {
		return
	}
	if err := e.vault.Clear(ctx); err != nil {
		e.log.Warn(ctx, "clear stored session", "error", err)
	}
}
