package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/webwx/internal/client/events"
	"github.com/dmitrijs2005/webwx/internal/logging"
	"golang.org/x/term"
)

const DefaultPollInterval = time.Second

// Source is the host end of the event queue.
type Source interface {
	TryReceive() (events.Event, bool)
}

// Engine is the part of engine.Engine the host watches.
type Engine interface {
	Done() <-chan struct{}
	Err() error
}

type ContactRecorder interface {
	Record(ctx context.Context, cs ...events.Contact) error
}

type App struct {
	events   Source
	engine   Engine
	contacts ContactRecorder
	out      io.Writer
	interval time.Duration
	log      logging.Logger

	interactive bool
	seen        int
}

type Option func(*App)

// WithOutput redirects user-facing messages (stdout by default).
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
		a.interactive = isTerminal(w)
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithContacts stores every AddContact event through r.
func WithContacts(r ContactRecorder) Option {
	return func(a *App) { a.contacts = r }
}

func NewApp(src Source, eng Engine, log logging.Logger, opts ...Option) *App {
	if log == nil {
		log = logging.Discard()
	}
	a := &App{
		events:      src,
		engine:      eng,
		out:         os.Stdout,
		interval:    DefaultPollInterval,
		log:         log,
		interactive: isTerminal(os.Stdout),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run pumps events until the engine is done and the queue is empty, or ctx
// is cancelled. It returns the engine's terminal error.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.Step(ctx) {
				continue
			}
			select {
			case <-a.engine.Done():
				a.log.Debug(ctx, "event queue drained", "handled", a.seen)
				return a.engine.Err()
			default:
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Step handles at most one queued event and reports whether it found one.
func (a *App) Step(ctx context.Context) bool {
	ev, ok := a.events.TryReceive()
	if !ok {
		return false
	}
	a.seen++
	a.handle(ctx, ev)
	return true
}

func (a *App) handle(ctx context.Context, ev events.Event) {
	switch e := ev.(type) {
	case events.ShowLoginImage:
		if a.interactive {
			fmt.Fprintf(a.out, "Scan the QR code in %s with the mobile app to log in\n", e.Path)
		} else {
			fmt.Fprintln(a.out, e.Path)
		}

	case events.AddContact:
		fmt.Fprintf(a.out, "contact %s (%s)\n", e.Contact.NickName, e.Contact.UserName)
		if a.contacts == nil {
			return
		}
		if err := a.contacts.Record(ctx, e.Contact); err != nil {
			a.log.Warn(ctx, "record contact", "user", e.Contact.UserName, "error", err)
		}

	case events.SessionEnded:
		fmt.Fprintf(a.out, "session ended by server (retcode %d, selector %d)\n", e.Retcode, e.Selector)

	case events.EngineStopped:
		fmt.Fprintf(a.out, "stopped: %v\n", e.Err)

	default:
		a.log.Warn(ctx, "unhandled event", "event", fmt.Sprint(ev))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
