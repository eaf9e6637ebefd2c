// Package endpoint holds the URL templates and header sets of the web
// protocol. The paths are a fixed wire contract; only the hosts are
// configurable so tests can point everything at a local server.
package endpoint

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/webwx/internal/client/session"
)

const (
	DefaultLoginBase = "https://login.web.wechat.com"
	DefaultQRBase    = "https://login.weixin.qq.com"
	DefaultWebBase   = "https://web.wechat.com"
	DefaultPushBase  = "https://webpush.web.wechat.com"
	DefaultAppID     = "wx782c26e4c19acffb"
	DefaultLang      = "zh_CN"

	cgi = "/cgi-bin/mmwebwx-bin"
)

// Endpoints resolves every URL the engine talks to.
type Endpoints struct {
	LoginBase string
	QRBase    string
	WebBase   string
	PushBase  string
	AppID     string
	Lang      string
}

func Default() Endpoints {
	return Endpoints{
		LoginBase: DefaultLoginBase,
		QRBase:    DefaultQRBase,
		WebBase:   DefaultWebBase,
		PushBase:  DefaultPushBase,
		AppID:     DefaultAppID,
		Lang:      DefaultLang,
	}
}

func (e Endpoints) JSLogin() string {
	return fmt.Sprintf("%s/jslogin?appid=%s", e.LoginBase, e.AppID)
}

func (e Endpoints) QRCode(uuid string) string {
	return fmt.Sprintf("%s/qrcode/%s", e.QRBase, uuid)
}

// LoginCheck is the scan status endpoint; tip=1 on the first (pending) call.
func (e Endpoints) LoginCheck(uuid string, tip bool) string {
	t := 0
	if tip {
		t = 1
	}
	return fmt.Sprintf("%s%s/login?uuid=%s&tip=%d", e.QRBase, cgi, uuid, t)
}

// LoginPage appends the fun parameter to the redirect taken from the login check.
func (e Endpoints) LoginPage(redirectURI string) string {
	return redirectURI + "&fun=new"
}

func (e Endpoints) Init(passTicket, skey string) string {
	return fmt.Sprintf("%s%s/webwxinit?lang=%s&pass_ticket=%s&skey=%s", e.WebBase, cgi, e.Lang, passTicket, skey)
}

func (e Endpoints) StatusNotify(passTicket string) string {
	return fmt.Sprintf("%s%s/webwxstatusnotify?lang=%s&pass_ticket=%s", e.WebBase, cgi, e.Lang, passTicket)
}

// SyncCheck is the long-poll URL. Credentials are embedded verbatim: the
// pass ticket and sync key already arrive in wire form.
func (e Endpoints) SyncCheck(c session.Credentials, syncKey string, ts int64) string {
	return fmt.Sprintf("%s%s/synccheck?sid=%s&uin=%s&skey=%s&deviceid=%s&synckey=%s&r=%d&_=%d",
		e.PushBase, cgi, c.Sid, c.Uin, c.Skey, "", syncKey, ts, ts)
}

func (e Endpoints) WebSync(c session.Credentials) string {
	return fmt.Sprintf("%s%s/webwxsync?sid=%s&skey=%s&pass_ticket=%s", e.WebBase, cgi, c.Sid, c.Skey, c.PassTicket)
}

// PushHost is the Host header value for the long-poll subdomain.
func (e Endpoints) PushHost() string {
	u, err := url.Parse(e.PushBase)
	if err != nil {
		return ""
	}
	return u.Host
}

// SessionHeaders are sent with every call on the main web host.
func (e Endpoints) SessionHeaders(cookie string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json; charset=UTF-8")
	h.Set("Referer", fmt.Sprintf("%s/?&lang=%s", e.WebBase, e.Lang))
	h.Set("Accept", "application/json, text/plain, */*")
	if cookie != "" {
		h.Set("Cookie", cookie)
	}
	return h
}

// PushHeaders share only the cookie with SessionHeaders; the push subdomain
// must not see the main Host or Referer.
func (e Endpoints) PushHeaders(cookie string) http.Header {
	h := http.Header{}
	h.Set("Host", e.PushHost())
	h.Set("Accept", "*/*")
	h.Set("Referer", fmt.Sprintf("%s/?&lang=%s", e.PushBase, e.Lang))
	if cookie != "" {
		h.Set("Cookie", cookie)
	}
	return h
}
