package convert

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	model "github.com/and161185/goph-vault/internal/model"
)

func strp(s string) *string { return &s }

func TestToRecordDTO_WireShape(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 3*3600))
	dto := ToRecordDTO(model.Record{
		ID:        3,
		Title:     "bank",
		Username:  "alice",
		Password:  "hunter2",
		LoginURL:  strp("https://bank.example"),
		CreatedAt: ts,
		UpdatedAt: ts,
	})

	raw, err := json.Marshal(dto)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	require.Len(t, m, 8)
	require.Equal(t, "hunter2", m["password"])
	require.Equal(t, "https://bank.example", m["login_url"])
	require.Nil(t, m["notes"])
	require.Equal(t, "2024-05-01T07:00:00Z", m["created_at"])
}

func TestToRecordDTOs_EmptyIsArray(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(ToRecordDTOs(nil))
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(raw))
}

func TestFromRecordRequest(t *testing.T) {
	t.Parallel()

	var req RecordRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t","username":"u","password":"p","notes":"n"}`), &req))

	in := FromRecordRequest(req)
	require.Equal(t, "t", in.Title)
	require.Equal(t, "p", in.Password)
	require.Nil(t, in.LoginURL)
	require.Equal(t, "n", *in.Notes)
}

func TestToLoginResponse_Millis(t *testing.T) {
	t.Parallel()

	exp := time.Unix(1700000000, 0)
	lr := ToLoginResponse(model.Session{Token: "tok", ExpiresAt: exp})
	require.Equal(t, int64(1700000000000), lr.ExpiresAt)

	raw, err := json.Marshal(lr)
	require.NoError(t, err)
	require.JSONEq(t, `{"token":"tok","expiresAt":1700000000000}`, string(raw))
}
