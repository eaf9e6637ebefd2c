package scrape

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/webwx/internal/common"
)

// BaseResponse is the status header of every JSON endpoint.
type BaseResponse struct {
	Ret    int    `json:"Ret"`
	ErrMsg string `json:"ErrMsg"`
}

// Err maps a non-zero Ret to common.ErrRejected.
func (b BaseResponse) Err() error {
	if b.Ret == 0 {
		return nil
	}
	return fmt.Errorf("%w: ret=%d %s", common.ErrRejected, b.Ret, b.ErrMsg)
}

// RawContact keeps pointers so absent fields can be told from zero values.
type RawContact struct {
	UserName    *string `json:"UserName"`
	NickName    *string `json:"NickName"`
	MemberCount *int    `json:"MemberCount"`
}

// IsDirect reports a one-to-one contact: MemberCount present and exactly 0
// with a non-empty UserName.
func (c RawContact) IsDirect() bool {
	return c.MemberCount != nil && *c.MemberCount == 0 && c.UserName != nil && *c.UserName != ""
}

// InitResponse is the webwxinit body.
type InitResponse struct {
	BaseResponse *BaseResponse   `json:"BaseResponse"`
	User         json.RawMessage `json:"User"`
	SyncKey      json.RawMessage `json:"SyncKey"`
	ContactList  []RawContact    `json:"ContactList"`
}

// SyncResponse is the webwxsync body. Only the cursor is consumed; message
// content is left to collaborators.
type SyncResponse struct {
	BaseResponse *BaseResponse   `json:"BaseResponse"`
	SyncCheckKey json.RawMessage `json:"SyncCheckKey"`
	SyncKey      json.RawMessage `json:"SyncKey"`
	AddMsgCount  int             `json:"AddMsgCount"`
}

func Init(body []byte) (*InitResponse, error) {
	var r InitResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, common.NewParseError("webwxinit", err)
	}
	if r.BaseResponse != nil {
		if err := r.BaseResponse.Err(); err != nil {
			return nil, err
		}
	}
	if len(r.User) == 0 {
		return nil, common.NewParseError("webwxinit.User", nil)
	}
	var user struct {
		UserName string `json:"UserName"`
	}
	if err := json.Unmarshal(r.User, &user); err != nil {
		return nil, common.NewParseError("webwxinit.User", err)
	}
	if user.UserName == "" {
		return nil, common.NewParseError("webwxinit.User.UserName", nil)
	}
	if len(r.SyncKey) == 0 {
		return nil, common.NewParseError("webwxinit.SyncKey", nil)
	}
	if r.ContactList == nil {
		return nil, common.NewParseError("webwxinit.ContactList", nil)
	}
	return &r, nil
}

func Sync(body []byte) (*SyncResponse, error) {
	var r SyncResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, common.NewParseError("webwxsync", err)
	}
	if r.BaseResponse != nil {
		if err := r.BaseResponse.Err(); err != nil {
			return nil, err
		}
	}
	if len(r.SyncCheckKey) == 0 {
		return nil, common.NewParseError("webwxsync.SyncCheckKey", nil)
	}
	return &r, nil
}
