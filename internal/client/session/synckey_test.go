package session

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/webwx/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinParse_RoundTrip(t *testing.T) {
	lists := [][]SyncKey{
		{{Key: 1, Val: 651}},
		{{Key: 1, Val: 651}, {Key: 2, Val: 652}, {Key: 3, Val: 653}, {Key: 1000, Val: 1487767062}},
		{{Key: 11, Val: 0}, {Key: 3, Val: 7}, {Key: 2, Val: 9}},
		{{Key: 201, Val: 1487767062}, {Key: 1, Val: -5}},
	}

	for _, l := range lists {
		joined := JoinSyncKeys(l)
		got, err := ParseSyncKeyString(joined)
		require.NoError(t, err)
		assert.Equal(t, l, got, "round trip of %q", joined)
	}
}

func TestJoinSyncKeys_Format(t *testing.T) {
	assert.Equal(t, "1_651|2_652|3_653", JoinSyncKeys([]SyncKey{{1, 651}, {2, 652}, {3, 653}}))
	assert.Equal(t, "", JoinSyncKeys(nil))
}

func TestParseSyncKeyString_Errors(t *testing.T) {
	for _, in := range []string{"1-2", "a_1", "1_b", "1_2|", "1_2|3"} {
		_, err := ParseSyncKeyString(in)
		require.ErrorIs(t, err, common.ErrParse, in)
	}

	keys, err := ParseSyncKeyString("")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSetSyncKey_ReplacesWholesale(t *testing.T) {
	s := newTestStore(t)
	s.SetSyncKeys([]SyncKey{{Key: 9, Val: 9}, {Key: 8, Val: 8}})

	err := s.SetSyncKey(json.RawMessage(`{"Count":2,"List":[{"Key":1,"Val":100},{"Key":2,"Val":200}]}`))
	require.NoError(t, err)

	assert.Equal(t, []SyncKey{{1, 100}, {2, 200}}, s.SyncKeys())
	assert.Equal(t, "1_100|2_200", s.SyncKeyString())
}

func TestSetSyncKey_RejectsMissingList(t *testing.T) {
	s := newTestStore(t)
	s.SetSyncKeys([]SyncKey{{Key: 1, Val: 1}})

	for _, raw := range []string{`{"Count":0}`, `{"List":null}`, `{"List":{"Key":1}}`, `[]`, `nope`} {
		err := s.SetSyncKey(json.RawMessage(raw))
		require.ErrorIs(t, err, common.ErrParse, raw)
	}
	assert.Equal(t, "1_1", s.SyncKeyString(), "cursor must be untouched")
}

func TestSyncKeyPayload_CountAndList(t *testing.T) {
	s := newTestStore(t)
	s.SetSyncKeys([]SyncKey{{1, 10}, {2, 20}})

	view := s.SyncKeyPayload()
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, []SyncKey{{1, 10}, {2, 20}}, view.List)

	b, err := json.Marshal(newTestStore(t).SyncKeyPayload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"Count":0,"List":[]}`, string(b))
}
