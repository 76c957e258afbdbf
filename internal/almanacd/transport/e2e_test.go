package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/almanac-dev/almanac/internal/almanacd/calendar"
	"github.com/almanac-dev/almanac/internal/almanacd/processor"
)

// TestEndToEndWithProcessor exercises the full path: HTTP endpoint, session
// service, and the real message processor over a live store.
func TestEndToEndWithProcessor(t *testing.T) {
	proc, err := processor.New(calendar.NewStore())
	require.NoError(t, err)
	ts, svc := newTestEndpoint(t, proc, Options{})

	code, header, body := postMessage(t, ts.URL, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, svc.Session().ID(), header.Get(SessionIDHeader))
	assert.Equal(t, int64(1), gjson.Get(body, "id").Int())
	assert.True(t, gjson.Get(body, "result").Exists())

	// a notification is accepted without producing a reply
	code, _, _ = postMessage(t, ts.URL, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Equal(t, http.StatusAccepted, code)

	// a tool call round-trips through the store
	code, _, body = postMessage(t, ts.URL, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"create_event","arguments":{"calendar":"work","title":"kickoff","start":"2026-03-02T09:00:00Z","end":"2026-03-02T10:00:00Z"}}}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(2), gjson.Get(body, "id").Int())
	assert.False(t, gjson.Get(body, "result.isError").Bool())

	code, _, body = postMessage(t, ts.URL, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"list_events","arguments":{"from":"2026-03-01T00:00:00Z","to":"2026-03-08T00:00:00Z"}}}`)
	assert.Equal(t, http.StatusOK, code)
	listed := gjson.Parse(gjson.Get(body, "result.content.0.text").String())
	assert.Equal(t, int64(1), listed.Get("count").Int())
	assert.Equal(t, "kickoff", listed.Get("events.0.title").String())
}
