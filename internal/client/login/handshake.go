package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradenaw/juniper/xslices"
	"github.com/dmitrijs2005/webwx/internal/client/endpoint"
	"github.com/dmitrijs2005/webwx/internal/client/events"
	"github.com/dmitrijs2005/webwx/internal/client/scrape"
	"github.com/dmitrijs2005/webwx/internal/client/session"
	"github.com/dmitrijs2005/webwx/internal/client/transport"
	"github.com/dmitrijs2005/webwx/internal/common"
	"github.com/dmitrijs2005/webwx/internal/filex"
	"github.com/dmitrijs2005/webwx/internal/logging"
	"github.com/google/uuid"
)

const DefaultPollAttempts = 20

// Login check window.code values.
const (
	codeConfirmed = 200
	codeScanned   = 201
	codeExpired   = 400
	codeWaiting   = 408
)

// Emitter receives host-bound events.
type Emitter interface {
	Emit(events.Event)
}

type Config struct {
	Endpoints   endpoint.Endpoints
	QRImagePath string
	// PollAttempts bounds PollConfirmed; each attempt is one server-held request.
	PollAttempts int
}

type Handshake struct {
	cfg    Config
	client transport.Client
	store  *session.Store
	out    Emitter
	log    logging.Logger
}

func New(cfg Config, client transport.Client, store *session.Store, out Emitter, log logging.Logger) *Handshake {
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = DefaultPollAttempts
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Handshake{cfg: cfg, client: client, store: store, out: out, log: log}
}

// Run performs every step up to and including StatusNotify. On success the
// store holds a complete session and the sync loop may start.
func (h *Handshake) Run(ctx context.Context) error {
	log := h.log.With("attempt_id", uuid.NewString())

	token, err := h.RequestUUID(ctx)
	if err != nil {
		return fmt.Errorf("request uuid: %w", err)
	}
	log.Info(ctx, "login token issued", "uuid", token)

	path, err := h.RenderQR(ctx, token)
	if err != nil {
		return fmt.Errorf("render qr: %w", err)
	}
	log.Info(ctx, "qr code ready", "path", path)

	if err := h.PollPending(ctx, token); err != nil {
		return fmt.Errorf("poll pending: %w", err)
	}

	redirect, err := h.PollConfirmed(ctx, token)
	if err != nil {
		return fmt.Errorf("poll confirmed: %w", err)
	}
	log.Info(ctx, "login confirmed")

	if err := h.FetchLoginPage(ctx, redirect); err != nil {
		return fmt.Errorf("fetch login page: %w", err)
	}

	n, err := h.InitSession(ctx)
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}
	log.Info(ctx, "session initialised", "user", h.store.UserName(), "contacts", n)

	if err := h.StatusNotify(ctx); err != nil {
		return fmt.Errorf("status notify: %w", err)
	}
	return nil
}

func (h *Handshake) RequestUUID(ctx context.Context) (string, error) {
	resp, err := h.client.Get(ctx, h.cfg.Endpoints.JSLogin(), nil)
	if err != nil {
		return "", err
	}
	return scrape.UUID(resp.Body)
}

// RenderQR downloads the QR image, overwrites the configured file and tells
// the host where to find it.
func (h *Handshake) RenderQR(ctx context.Context, token string) (string, error) {
	resp, err := h.client.Get(ctx, h.cfg.Endpoints.QRCode(token), nil)
	if err != nil {
		return "", err
	}
	if err := filex.WriteFile(h.cfg.QRImagePath, resp.Body); err != nil {
		return "", err
	}
	h.out.Emit(events.ShowLoginImage{Path: h.cfg.QRImagePath})
	return h.cfg.QRImagePath, nil
}

// PollPending issues the tip=1 status check. The answer is not inspected.
func (h *Handshake) PollPending(ctx context.Context, token string) error {
	_, err := h.client.Get(ctx, h.cfg.Endpoints.LoginCheck(token, true), h.cfg.Endpoints.SessionHeaders(h.store.Cookie()))
	return err
}

// PollConfirmed repeats the tip=0 status check until the server hands out a
// redirect_uri, the code expires or the attempts run out.
func (h *Handshake) PollConfirmed(ctx context.Context, token string) (string, error) {
	url := h.cfg.Endpoints.LoginCheck(token, false)

	for attempt := 1; attempt <= h.cfg.PollAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := h.client.Get(ctx, url, h.cfg.Endpoints.SessionHeaders(h.store.Cookie()))
		if err != nil {
			return "", err
		}

		redirect, err := scrape.RedirectURI(resp.Body)
		if err == nil {
			return redirect, nil
		}

		code, cerr := scrape.LoginCode(resp.Body)
		if cerr != nil {
			return "", errors.Join(err, cerr)
		}

		switch code {
		case codeWaiting:
			h.log.Debug(ctx, "waiting for scan", "attempt", attempt)
		case codeScanned:
			h.log.Info(ctx, "qr code scanned, waiting for confirmation", "attempt", attempt)
		case codeExpired:
			return "", common.ErrQRExpired
		case codeConfirmed:
			return "", err
		default:
			return "", fmt.Errorf("%w: window.code=%d", common.ErrRejected, code)
		}
	}
	return "", common.ErrLoginTimeout
}

// FetchLoginPage extracts the four credentials and the cookies, then commits
// them in one step. Nothing is stored if any field is missing.
func (h *Handshake) FetchLoginPage(ctx context.Context, redirectURI string) error {
	resp, err := h.client.Get(ctx, h.cfg.Endpoints.LoginPage(redirectURI), nil)
	if err != nil {
		return err
	}
	creds, err := scrape.LoginPage(resp.Body)
	if err != nil {
		return err
	}
	h.store.CommitLogin(creds, resp.SetCookie)
	return nil
}

// InitSession bootstraps the cursor and profile and surfaces the direct
// contacts of the initial list. It returns the number of contacts emitted.
func (h *Handshake) InitSession(ctx context.Context) (int, error) {
	if err := h.store.RequireAuth(); err != nil {
		return 0, err
	}
	c := h.store.Credentials()

	resp, err := h.client.Post(ctx, h.cfg.Endpoints.Init(c.PassTicket, c.Skey),
		h.cfg.Endpoints.SessionHeaders(h.store.Cookie()), h.store.BaseRequestPayload())
	if err != nil {
		return 0, err
	}

	boot, err := scrape.Init(resp.Body)
	if err != nil {
		return 0, err
	}
	if err := h.store.SetSyncKey(boot.SyncKey); err != nil {
		return 0, err
	}
	h.store.SetUserInfo(boot.User)

	contacts := DirectContacts(boot.ContactList)
	for _, ct := range contacts {
		h.out.Emit(events.AddContact{Contact: ct})
	}
	return len(contacts), nil
}

// StatusNotify announces presence. The response body is ignored.
func (h *Handshake) StatusNotify(ctx context.Context) error {
	if err := h.store.RequireAuth(); err != nil {
		return err
	}
	_, err := h.client.Post(ctx, h.cfg.Endpoints.StatusNotify(h.store.PassTicket()),
		h.cfg.Endpoints.SessionHeaders(h.store.Cookie()), h.store.StatusNotifyPayload())
	return err
}

// DirectContacts keeps named entries whose MemberCount is present and zero, in order.
func DirectContacts(list []scrape.RawContact) []events.Contact {
	direct := xslices.Filter(list, scrape.RawContact.IsDirect)
	return xslices.Map(direct, func(c scrape.RawContact) events.Contact {
		return events.Contact{UserName: deref(c.UserName), NickName: deref(c.NickName)}
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
