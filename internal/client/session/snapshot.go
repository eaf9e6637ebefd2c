package session

import "encoding/json"

// Snapshot is a serializable copy of the whole store.
type Snapshot struct {
	Credentials Credentials     `json:"credentials"`
	Cookies     []string        `json:"cookies"`
	UserInfo    json.RawMessage `json:"user_info,omitempty"`
	SyncKeys    []SyncKey       `json:"sync_keys"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Credentials: s.creds,
		Cookies:     append([]string(nil), s.jar...),
		UserInfo:    append(json.RawMessage(nil), s.userInfo...),
		SyncKeys:    append([]SyncKey(nil), s.syncKeys...),
	}
}

// Restore replaces the store contents with snap. The cookie list is taken
// as-is; no placeholder is removed.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = snap.Credentials
	s.jar = append([]string(nil), snap.Cookies...)
	s.userInfo = append(json.RawMessage(nil), snap.UserInfo...)
	s.syncKeys = append([]SyncKey(nil), snap.SyncKeys...)
}
