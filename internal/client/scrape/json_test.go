package scrape

import (
	"testing"

	"github.com/dmitrijs2005/webwx/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	body := `{
		"BaseResponse": {"Ret": 0, "ErrMsg": ""},
		"User": {"UserName": "@me"},
		"SyncKey": {"Count": 1, "List": [{"Key": 1, "Val": 100}]},
		"ContactList": [
			{"UserName": "@a", "MemberCount": 0},
			{"UserName": "@@group", "MemberCount": 5},
			{"UserName": "@nocount"},
			{"MemberCount": 0},
			{"UserName": "", "MemberCount": 0}
		]
	}`
	r, err := Init([]byte(body))
	require.NoError(t, err)
	assert.JSONEq(t, `{"UserName": "@me"}`, string(r.User))
	require.Len(t, r.ContactList, 5)
	assert.True(t, r.ContactList[0].IsDirect())
	assert.False(t, r.ContactList[1].IsDirect())
	assert.False(t, r.ContactList[2].IsDirect())
	assert.False(t, r.ContactList[3].IsDirect(), "missing UserName")
	assert.False(t, r.ContactList[4].IsDirect(), "empty UserName")
}

func TestInit_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"not json", `<html>`, common.ErrParse},
		{"rejected", `{"BaseResponse": {"Ret": 1100}, "User": {}, "SyncKey": {}, "ContactList": []}`, common.ErrRejected},
		{"no user", `{"SyncKey": {}, "ContactList": []}`, common.ErrParse},
		{"no sync key", `{"User": {"UserName": "@me"}, "ContactList": []}`, common.ErrParse},
		{"no contacts", `{"User": {"UserName": "@me"}, "SyncKey": {}}`, common.ErrParse},
		{"user without name", `{"User": {"NickName": "Me"}, "SyncKey": {}, "ContactList": []}`, common.ErrParse},
		{"user with empty name", `{"User": {"UserName": ""}, "SyncKey": {}, "ContactList": []}`, common.ErrParse},
		{"user not an object", `{"User": "@me", "SyncKey": {}, "ContactList": []}`, common.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Init([]byte(tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInit_EmptyContactList(t *testing.T) {
	r, err := Init([]byte(`{"User": {"UserName": "@me"}, "SyncKey": {"List": []}, "ContactList": []}`))
	require.NoError(t, err)
	assert.Empty(t, r.ContactList)
}

func TestInit_UserNameField(t *testing.T) {
	_, err := Init([]byte(`{"User": {"NickName": "Me"}, "SyncKey": {}, "ContactList": []}`))
	var pe *common.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "webwxinit.User.UserName", pe.Field)
}

func TestSync(t *testing.T) {
	body := `{"BaseResponse": {"Ret": 0}, "AddMsgCount": 1,
		"SyncCheckKey": {"Count": 2, "List": [{"Key": 1, "Val": 2}, {"Key": 3, "Val": 4}]}}`
	r, err := Sync([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, 1, r.AddMsgCount)
	assert.JSONEq(t, `{"Count": 2, "List": [{"Key": 1, "Val": 2}, {"Key": 3, "Val": 4}]}`, string(r.SyncCheckKey))

	_, err = Sync([]byte(`{"BaseResponse": {"Ret": 0}}`))
	assert.ErrorIs(t, err, common.ErrParse)
}
