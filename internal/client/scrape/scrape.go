// Package scrape extracts protocol fields from the HTML/JS bodies returned by
// the web endpoints. Every field has its own function and its own pattern, so
// a format change on the server side is fixed here and nowhere else.
//
// A missing pattern is always a *common.ParseError; nothing here guesses.
package scrape

import (
	"regexp"
	"strconv"

	"github.com/dmitrijs2005/webwx/internal/client/session"
	"github.com/dmitrijs2005/webwx/internal/common"
)

var (
	uuidRe        = regexp.MustCompile(`uuid\s*=\s*"([^"]+)"`)
	redirectURIRe = regexp.MustCompile(`redirect_uri\s*=\s*"([^"]+)"`)
	loginCodeRe   = regexp.MustCompile(`window\.code\s*=\s*(\d+)`)
	skeyRe        = regexp.MustCompile(`<skey>([^<]*)</skey>`)
	sidRe         = regexp.MustCompile(`<wxsid>([^<]*)</wxsid>`)
	uinRe         = regexp.MustCompile(`<wxuin>([^<]*)</wxuin>`)
	passTicketRe  = regexp.MustCompile(`<pass_ticket>([^<]*)</pass_ticket>`)
	syncCheckRe   = regexp.MustCompile(`retcode\s*:\s*"(\d+)"\s*,\s*selector\s*:\s*"(\d+)"`)
)

// capture returns the first group of re in body, or a ParseError naming field
// when there is no match or the group is empty.
func capture(re *regexp.Regexp, body []byte, field string) (string, error) {
	m := re.FindSubmatch(body)
	if len(m) < 2 || len(m[1]) == 0 {
		return "", common.NewParseError(field, nil)
	}
	return string(m[1]), nil
}

// UUID reads the login token from the jslogin response:
//
//	window.QRLogin.code = 200; window.QRLogin.uuid = "oZYNmWV5SQ==";
func UUID(body []byte) (string, error) {
	return capture(uuidRe, body, "uuid")
}

// RedirectURI reads the login-page URL from a confirmed login check.
func RedirectURI(body []byte) (string, error) {
	return capture(redirectURIRe, body, "redirect_uri")
}

// LoginCode reads window.code from a login check response.
func LoginCode(body []byte) (int, error) {
	s, err := capture(loginCodeRe, body, "window.code")
	if err != nil {
		return 0, err
	}
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0, common.NewParseError("window.code", err)
	}
	return code, nil
}

func Skey(body []byte) (string, error) {
	return capture(skeyRe, body, "skey")
}

func Sid(body []byte) (string, error) {
	return capture(sidRe, body, "wxsid")
}

func Uin(body []byte) (string, error) {
	return capture(uinRe, body, "wxuin")
}

func PassTicket(body []byte) (string, error) {
	return capture(passTicketRe, body, "pass_ticket")
}

// LoginPage extracts all four credentials or none.
func LoginPage(body []byte) (session.Credentials, error) {
	skey, err := Skey(body)
	if err != nil {
		return session.Credentials{}, err
	}
	sid, err := Sid(body)
	if err != nil {
		return session.Credentials{}, err
	}
	uin, err := Uin(body)
	if err != nil {
		return session.Credentials{}, err
	}
	passTicket, err := PassTicket(body)
	if err != nil {
		return session.Credentials{}, err
	}
	return session.Credentials{Uin: uin, Sid: sid, Skey: skey, PassTicket: passTicket}, nil
}

// SyncCheck reads the status pair of a long-poll response:
//
//	window.synccheck={retcode:"0",selector:"2"}
func SyncCheck(body []byte) (retcode int, selector int, err error) {
	m := syncCheckRe.FindSubmatch(body)
	if len(m) < 3 {
		return 0, 0, common.NewParseError("synccheck", nil)
	}
	if retcode, err = strconv.Atoi(string(m[1])); err != nil {
		return 0, 0, common.NewParseError("synccheck.retcode", err)
	}
	if selector, err = strconv.Atoi(string(m[2])); err != nil {
		return 0, 0, common.NewParseError("synccheck.selector", err)
	}
	return retcode, selector, nil
}
