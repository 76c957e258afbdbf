package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	require.NoError(t, err)
	assert.Equal(t, MethodType("ping"), req.Method)
	assert.False(t, req.IsNotification())
	assert.Equal(t, json.RawMessage("1"), req.ID)

	// string ids are equally valid
	req, err = ParseRequest([]byte(`{"jsonrpc":"2.0","id":"abc","method":"tools/list"}`))
	require.NoError(t, err)
	assert.False(t, req.IsNotification())

	// no id means notification
	req, err = ParseRequest([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	assert.True(t, req.IsNotification())

	// null id is treated as a notification as well
	req, err = ParseRequest([]byte(`{"jsonrpc":"2.0","id":null,"method":"ping"}`))
	require.NoError(t, err)
	assert.True(t, req.IsNotification())

	_, err = ParseRequest([]byte(`{"jsonrpc":"1.0","id":1,"method":"ping"}`))
	assert.Error(t, err)

	_, err = ParseRequest([]byte(`{"jsonrpc":"2.0","id":1}`))
	assert.Error(t, err)

	_, err = ParseRequest([]byte(`not json`))
	assert.Error(t, err)
}

func TestConstructResponses(t *testing.T) {
	b, err := ConstructSuccessResponse(json.RawMessage("1"), map[string]string{"status": "ok"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{"status":"ok"}}`, string(b))

	b, err = ConstructErrorResponse(json.RawMessage(`"r-1"`), ErrCodeMethodNotFound, "method not found", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"r-1","error":{"code":-32601,"message":"method not found"}}`, string(b))

	rsp, err := ParseResponse(b)
	require.NoError(t, err)
	require.NotNil(t, rsp.Error)
	assert.Equal(t, ErrCodeMethodNotFound, rsp.Error.Code)
}

func TestConstructRequest(t *testing.T) {
	b, err := ConstructRequest(json.RawMessage("7"), "tools/call", map[string]any{"name": "free_busy"})
	require.NoError(t, err)
	req, err := ParseRequest(b)
	require.NoError(t, err)
	assert.Equal(t, MethodType("tools/call"), req.Method)

	b, err = ConstructNotification("notifications/initialized", nil)
	require.NoError(t, err)
	req, err = ParseRequest(b)
	require.NoError(t, err)
	assert.True(t, req.IsNotification())
}
