package bus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zengest/platform/pkg/util"
)

func TestEnvelopeRoundtrip(t *testing.T) {
	req := requestEnvelope{
		ID:      "corr-1",
		ReplyTo: replyKey("corr-1"),
		Data:    json.RawMessage(`{"email":"a@x.com"}`),
	}

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded requestEnvelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, req.ID, decoded.ID)
	require.Equal(t, "rpc:reply:corr-1", decoded.ReplyTo)
	require.JSONEq(t, `{"email":"a@x.com"}`, string(decoded.Data))
}

func TestReplyErrorCrossesBoundaryLosslessly(t *testing.T) {
	reply := replyEnvelope{
		ID:    "corr-1",
		Error: &replyError{Code: util.CodeRefreshInvalid, Message: "refresh token invalid or expired"},
	}

	raw, err := json.Marshal(reply)
	require.NoError(t, err)

	var decoded replyEnvelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.Error)

	rebuilt := util.FromCode(decoded.Error.Code, decoded.Error.Message)
	require.Equal(t, util.CodeRefreshInvalid, rebuilt.Code)
	require.Equal(t, 401, rebuilt.HTTPStatus)
	require.Equal(t, "refresh token invalid or expired", rebuilt.Message)
}

func TestUnknownErrorCodeCollapsesToInternal(t *testing.T) {
	rebuilt := util.FromCode("SOMETHING_NEW", "mystery failure")
	require.Equal(t, util.CodeInternal, rebuilt.Code)
	require.Equal(t, 500, rebuilt.HTTPStatus)
	// An unknown failure never leaks its original message to callers.
	require.Equal(t, "internal server error", rebuilt.Message)
}

func TestQueueKeys(t *testing.T) {
	require.Equal(t, "rpc:auth.verify", queueKey(SubjectVerify))
	require.Equal(t, "rpc:auth.refresh", queueKey(SubjectRefresh))
}
