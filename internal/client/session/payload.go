package session

// BaseRequest identifies the session in every authenticated POST body.
type BaseRequest struct {
	Uin      string `json:"Uin"`
	Sid      string `json:"Sid"`
	Skey     string `json:"Skey"`
	DeviceID string `json:"DeviceID"`
}

type BasePayload struct {
	BaseRequest BaseRequest `json:"BaseRequest"`
}

type StatusNotifyPayload struct {
	BaseRequest  BaseRequest `json:"BaseRequest"`
	Code         int         `json:"Code"`
	FromUserName string      `json:"FromUserName"`
	ToUserName   string      `json:"ToUserName"`
	ClientMsgID  int64       `json:"ClientMsgId"`
}

type MessageCheckPayload struct {
	BaseRequest BaseRequest `json:"BaseRequest"`
	SyncKey     SyncKeyView `json:"SyncKey"`
	RR          int64       `json:"rr"`
}

const statusNotifyCode = 3

func (s *Store) baseRequestLocked() BaseRequest {
	return BaseRequest{Uin: s.creds.Uin, Sid: s.creds.Sid, Skey: s.creds.Skey, DeviceID: ""}
}

func (s *Store) BaseRequestPayload() BasePayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BasePayload{BaseRequest: s.baseRequestLocked()}
}

// StatusNotifyPayload announces presence to ourselves.
func (s *Store) StatusNotifyPayload() StatusNotifyPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	me := s.userNameLocked()
	return StatusNotifyPayload{
		BaseRequest:  s.baseRequestLocked(),
		Code:         statusNotifyCode,
		FromUserName: me,
		ToUserName:   me,
		ClientMsgID:  s.clock.Millis(),
	}
}

// MessageCheckPayload asks webwxsync for pending messages. rr is the bitwise
// complement of the current millisecond stamp; the server expects a negative
// cache buster in that shape.
func (s *Store) MessageCheckPayload() MessageCheckPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return MessageCheckPayload{
		BaseRequest: s.baseRequestLocked(),
		SyncKey:     syncKeyViewLocked(s.syncKeys),
		RR:          ^s.clock.Millis(),
	}
}
