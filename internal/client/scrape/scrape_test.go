package scrape

import (
	"testing"

	"github.com/dmitrijs2005/webwx/internal/client/session"
	"github.com/dmitrijs2005/webwx/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `<error><ret>0</ret><message></message>` +
	`<skey>SK1</skey><wxsid>SID1</wxsid><wxuin>UIN1</wxuin>` +
	`<pass_ticket>PT1</pass_ticket><isgrayscale>1</isgrayscale></error>`

func TestUUID(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"ok", `window.QRLogin.code = 200; window.QRLogin.uuid = "oZYNmWV5SQ==";`, "oZYNmWV5SQ==", false},
		{"no spaces", `window.QRLogin.uuid="abc";`, "abc", false},
		{"missing", `window.QRLogin.code = 500;`, "", true},
		{"empty", `window.QRLogin.uuid = "";`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UUID([]byte(tt.body))
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRedirectURI(t *testing.T) {
	body := `window.code=200;
window.redirect_uri="https://web.wechat.com/cgi-bin/mmwebwx-bin/webwxnewloginpage?ticket=T&uuid=U&lang=zh_CN&scan=1";`
	got, err := RedirectURI([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "https://web.wechat.com/cgi-bin/mmwebwx-bin/webwxnewloginpage?ticket=T&uuid=U&lang=zh_CN&scan=1", got)

	_, err = RedirectURI([]byte(`window.code=408;`))
	var pe *common.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "redirect_uri", pe.Field)
}

func TestLoginCode(t *testing.T) {
	code, err := LoginCode([]byte(`window.code=201;window.userAvatar = 'data:img';`))
	require.NoError(t, err)
	assert.Equal(t, 201, code)

	_, err = LoginCode([]byte(`nothing here`))
	require.ErrorIs(t, err, common.ErrParse)
}

func TestLoginPage(t *testing.T) {
	creds, err := LoginPage([]byte(loginPage))
	require.NoError(t, err)
	assert.Equal(t, session.Credentials{Uin: "UIN1", Sid: "SID1", Skey: "SK1", PassTicket: "PT1"}, creds)
}

func TestLoginPage_AllOrNothing(t *testing.T) {
	body := `<error><skey>SK1</skey><wxsid>SID1</wxsid><wxuin>UIN1</wxuin></error>`
	creds, err := LoginPage([]byte(body))
	var pe *common.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "pass_ticket", pe.Field)
	assert.Equal(t, session.Credentials{}, creds)
}

func TestFieldExtractors(t *testing.T) {
	b := []byte(loginPage)
	for name, fn := range map[string]func([]byte) (string, error){
		"SK1":  Skey,
		"SID1": Sid,
		"UIN1": Uin,
		"PT1":  PassTicket,
	} {
		got, err := fn(b)
		require.NoError(t, err)
		assert.Equal(t, name, got)

		_, err = fn([]byte("<error></error>"))
		assert.ErrorIs(t, err, common.ErrParse)
	}
}

func TestSyncCheck(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantRetcode  int
		wantSelector int
		wantErr      bool
	}{
		{"idle", `window.synccheck={retcode:"0",selector:"0"}`, 0, 0, false},
		{"new message", `window.synccheck={retcode:"0",selector:"2"}`, 0, 2, false},
		{"logged out", `window.synccheck={retcode:"1101",selector:"0"}`, 1101, 0, false},
		{"malformed", `window.synccheck={}`, 0, 0, true},
		{"html error page", `<html>502 Bad Gateway</html>`, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, sel, err := SyncCheck([]byte(tt.body))
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRetcode, rc)
			assert.Equal(t, tt.wantSelector, sel)
		})
	}
}
