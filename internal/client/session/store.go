package session

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/dmitrijs2005/webwx/internal/common"
	"github.com/dmitrijs2005/webwx/internal/timex"
)

// Credentials are the four opaque identifiers issued by the login page.
type Credentials struct {
	Uin        string `json:"uin"`
	Sid        string `json:"sid"`
	Skey       string `json:"skey"`
	PassTicket string `json:"pass_ticket"`
}

// Store is safe for concurrent use: one writer at a time, many readers.
type Store struct {
	mu       sync.RWMutex
	creds    Credentials
	jar      []string
	userInfo json.RawMessage
	syncKeys []SyncKey
	clock    timex.Clock
}

// NewStore returns an empty store stamping payloads with clock
// (the wall clock when nil).
func NewStore(clock timex.Clock) *Store {
	if clock == nil {
		clock = timex.SystemClock
	}
	return &Store{clock: clock}
}

func (s *Store) SetCredentials(uin, sid, skey, passTicket string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{Uin: uin, Sid: sid, Skey: skey, PassTicket: passTicket}
}

// SetCookies merges a raw Set-Cookie list into the jar. Every entry is cut at
// the first ';' (attributes are dropped) and appended, then the first jar
// entry is removed: the transport always prepends an empty placeholder to the
// list, so N raw entries leave N-1 cookies.
func (s *Store) SetCookies(rawSetCookie []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mergeCookiesLocked(rawSetCookie)
}

func (s *Store) mergeCookiesLocked(rawSetCookie []string) {
	for _, c := range rawSetCookie {
		first, _, _ := strings.Cut(c, ";")
		s.jar = append(s.jar, strings.TrimSpace(first))
	}
	if len(s.jar) > 0 {
		s.jar = s.jar[1:]
	}
}

// CommitLogin stores credentials and cookies under a single writer lock so
// readers never observe a half-populated session.
func (s *Store) CommitLogin(creds Credentials, rawSetCookie []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.mergeCookiesLocked(rawSetCookie)
}

// SetUserInfo stores the profile blob of the logged-in user.
func (s *Store) SetUserInfo(user json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userInfo = append(json.RawMessage(nil), user...)
}

func (s *Store) Uin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Uin
}

func (s *Store) Sid() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Sid
}

func (s *Store) Skey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Skey
}

func (s *Store) PassTicket() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.PassTicket
}

func (s *Store) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Cookies returns a copy of the jar in insertion order.
func (s *Store) Cookies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.jar...)
}

// Cookie renders the jar as a Cookie header value.
func (s *Store) Cookie() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.Join(s.jar, "; ")
}

func (s *Store) UserInfo() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(json.RawMessage(nil), s.userInfo...)
}

// UserName extracts UserName from the profile blob; "" if unset.
func (s *Store) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userNameLocked()
}

func (s *Store) userNameLocked() string {
	if len(s.userInfo) == 0 {
		return ""
	}
	var u struct {
		UserName string `json:"UserName"`
	}
	if err := json.Unmarshal(s.userInfo, &u); err != nil {
		return ""
	}
	return u.UserName
}

// RequireAuth reports which credentials are still empty.
func (s *Store) RequireAuth() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []string
	if s.creds.Uin == "" {
		missing = append(missing, "uin")
	}
	if s.creds.Sid == "" {
		missing = append(missing, "sid")
	}
	if s.creds.Skey == "" {
		missing = append(missing, "skey")
	}
	if s.creds.PassTicket == "" {
		missing = append(missing, "pass_ticket")
	}
	if len(missing) > 0 {
		return &common.PreconditionError{Missing: missing}
	}
	return nil
}

// Reset clears everything, used before a fresh login attempt.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	s.jar = nil
	s.userInfo = nil
	s.syncKeys = nil
}
