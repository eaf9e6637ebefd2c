package session

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/webwx/internal/common"
)

// SyncKey is one channel watermark of the sync cursor.
type SyncKey struct {
	Key int64 `json:"Key"`
	Val int64 `json:"Val"`
}

// SyncKeyView is the request-body form of the cursor.
type SyncKeyView struct {
	Count int       `json:"Count"`
	List  []SyncKey `json:"List"`
}

// SetSyncKey replaces the cursor with the List of a server {Count, List}
// object. A missing or non-array List is a parse error and leaves the
// cursor untouched.
func (s *Store) SetSyncKey(raw json.RawMessage) error {
	var obj struct {
		List json.RawMessage `json:"List"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return common.NewParseError("SyncKey", err)
	}
	trimmed := strings.TrimSpace(string(obj.List))
	if !strings.HasPrefix(trimmed, "[") {
		return common.NewParseError("SyncKey.List", nil)
	}
	var keys []SyncKey
	if err := json.Unmarshal(obj.List, &keys); err != nil {
		return common.NewParseError("SyncKey.List", err)
	}
	s.SetSyncKeys(keys)
	return nil
}

// SetSyncKeys replaces the cursor wholesale.
func (s *Store) SetSyncKeys(keys []SyncKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncKeys = append([]SyncKey(nil), keys...)
}

func (s *Store) SyncKeys() []SyncKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SyncKey(nil), s.syncKeys...)
}

// SyncKeyString renders the cursor as "k_v|k_v" for the long-poll URL.
func (s *Store) SyncKeyString() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return JoinSyncKeys(s.syncKeys)
}

// SyncKeyPayload renders the cursor as {Count, List} for request bodies.
func (s *Store) SyncKeyPayload() SyncKeyView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return syncKeyViewLocked(s.syncKeys)
}

func syncKeyViewLocked(keys []SyncKey) SyncKeyView {
	list := make([]SyncKey, len(keys))
	copy(list, keys)
	return SyncKeyView{Count: len(list), List: list}
}

func JoinSyncKeys(keys []SyncKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, strconv.FormatInt(k.Key, 10)+"_"+strconv.FormatInt(k.Val, 10))
	}
	return strings.Join(parts, "|")
}

// ParseSyncKeyString is the inverse of JoinSyncKeys.
func ParseSyncKeyString(s string) ([]SyncKey, error) {
	if s == "" {
		return nil, nil
	}
	pairs := strings.Split(s, "|")
	keys := make([]SyncKey, 0, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "_")
		if !ok {
			return nil, common.NewParseError("synckey", nil)
		}
		key, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, common.NewParseError("synckey", err)
		}
		val, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, common.NewParseError("synckey", err)
		}
		keys = append(keys, SyncKey{Key: key, Val: val})
	}
	return keys, nil
}
