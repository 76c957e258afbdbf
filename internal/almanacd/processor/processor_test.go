package processor

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/almanac-dev/almanac/internal/almanacd/calendar"
	"github.com/almanac-dev/almanac/internal/common/jsonrpc"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	p, err := New(calendar.NewStore())
	require.NoError(t, err)
	return p
}

// call sends one tools/call request through Process and parses the reply.
func call(t *testing.T, p *Processor, id int, tool string, args map[string]any) gjson.Result {
	t.Helper()
	msg, err := jsonrpc.ConstructRequest(
		json.RawMessage(strconv.Itoa(id)),
		"tools/call",
		map[string]any{"name": tool, "arguments": args},
	)
	require.NoError(t, err)
	out := p.Process(context.Background(), msg)
	require.NotNil(t, out)
	rsp := gjson.ParseBytes(out)
	require.Equal(t, int64(id), rsp.Get("id").Int())
	return rsp
}

// toolText asserts the call succeeded and parses its text payload as JSON.
func toolText(t *testing.T, rsp gjson.Result) gjson.Result {
	t.Helper()
	require.False(t, rsp.Get("result.isError").Bool(), rsp.Raw)
	return gjson.Parse(rsp.Get("result.content.0.text").String())
}

func TestNewRejectsNilStore(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilStore)
}

func TestPing(t *testing.T) {
	p := newTestProcessor(t)
	out := p.Process(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":7,"method":"ping"}`))
	require.NotNil(t, out)
	rsp := gjson.ParseBytes(out)
	assert.Equal(t, "2.0", rsp.Get("jsonrpc").String())
	assert.Equal(t, int64(7), rsp.Get("id").Int())
	assert.True(t, rsp.Get("result").Exists())
}

func TestNotificationProducesNoReply(t *testing.T) {
	p := newTestProcessor(t)
	out := p.Process(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	assert.Nil(t, out)
}

func TestUnknownMethod(t *testing.T) {
	p := newTestProcessor(t)
	out := p.Process(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"no/such/method"}`))
	require.NotNil(t, out)
	rsp := gjson.ParseBytes(out)
	assert.True(t, rsp.Get("error").Exists())
}

func TestToolList(t *testing.T) {
	p := newTestProcessor(t)
	out := p.Process(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	require.NotNil(t, out)
	rsp := gjson.ParseBytes(out)

	tools := rsp.Get("result.tools").Array()
	require.Len(t, tools, len(toolDefs))
	names := make(map[string]bool)
	for _, tl := range tools {
		names[tl.Get("name").String()] = true
	}
	for _, def := range toolDefs {
		assert.True(t, names[def.name], "tool %s not listed", def.name)
	}
}

func TestEventToolsRoundTrip(t *testing.T) {
	p := newTestProcessor(t)

	created := toolText(t, call(t, p, 1, "create_event", map[string]any{
		"calendar": "work",
		"title":    "design review",
		"start":    "2026-03-02T09:00:00Z",
		"end":      "2026-03-02T10:00:00Z",
	}))
	id := created.Get("id").String()
	require.NotEmpty(t, id)
	assert.Equal(t, "work", created.Get("calendar").String())

	listed := toolText(t, call(t, p, 2, "list_events", map[string]any{
		"from": "2026-03-01T00:00:00Z",
		"to":   "2026-03-08T00:00:00Z",
	}))
	require.Equal(t, int64(1), listed.Get("count").Int())
	assert.Equal(t, id, listed.Get("events.0.event_id").String())

	updated := toolText(t, call(t, p, 3, "update_event", map[string]any{
		"id":    id,
		"title": "design review (extended)",
		"end":   "2026-03-02T11:00:00Z",
	}))
	assert.Equal(t, "design review (extended)", updated.Get("title").String())

	deleted := toolText(t, call(t, p, 4, "delete_event", map[string]any{"id": id}))
	assert.True(t, deleted.Get("deleted").Bool())

	listed = toolText(t, call(t, p, 5, "list_events", map[string]any{
		"from": "2026-03-01T00:00:00Z",
		"to":   "2026-03-08T00:00:00Z",
	}))
	assert.Equal(t, int64(0), listed.Get("count").Int())
}

func TestRecurringEventExpansion(t *testing.T) {
	p := newTestProcessor(t)

	toolText(t, call(t, p, 1, "create_event", map[string]any{
		"calendar":   "work",
		"title":      "standup",
		"start":      "2026-03-02T09:00:00Z",
		"end":        "2026-03-02T09:15:00Z",
		"recurrence": "FREQ=DAILY;COUNT=3",
	}))

	listed := toolText(t, call(t, p, 2, "list_events", map[string]any{
		"from": "2026-03-01T00:00:00Z",
		"to":   "2026-03-08T00:00:00Z",
	}))
	assert.Equal(t, int64(3), listed.Get("count").Int())
}

func TestReminderTools(t *testing.T) {
	p := newTestProcessor(t)

	created := toolText(t, call(t, p, 1, "create_reminder", map[string]any{
		"list":     "chores",
		"title":    "water plants",
		"due":      "2026-03-05T18:00:00Z",
		"priority": 2,
	}))
	id := created.Get("id").String()
	require.NotEmpty(t, id)
	assert.False(t, created.Get("completed").Bool())

	done := toolText(t, call(t, p, 2, "complete_reminder", map[string]any{"id": id}))
	assert.True(t, done.Get("completed").Bool())

	listed := toolText(t, call(t, p, 3, "list_reminders", map[string]any{"list": "chores"}))
	assert.Equal(t, int64(0), listed.Get("count").Int())

	listed = toolText(t, call(t, p, 4, "list_reminders", map[string]any{
		"list":              "chores",
		"include_completed": true,
	}))
	assert.Equal(t, int64(1), listed.Get("count").Int())
}

func TestFreeBusyTool(t *testing.T) {
	p := newTestProcessor(t)

	toolText(t, call(t, p, 1, "create_event", map[string]any{
		"calendar": "work",
		"title":    "blocked",
		"start":    "2026-03-02T10:00:00Z",
		"end":      "2026-03-02T11:00:00Z",
	}))

	fb := toolText(t, call(t, p, 2, "free_busy", map[string]any{
		"from": "2026-03-02T09:00:00Z",
		"to":   "2026-03-02T12:00:00Z",
	}))
	require.Len(t, fb.Get("busy").Array(), 1)
	require.Len(t, fb.Get("free").Array(), 2)
	assert.Equal(t, "2026-03-02T10:00:00Z", fb.Get("busy.0.start").String())
}

func TestSchemaValidationRejectsBadArguments(t *testing.T) {
	p := newTestProcessor(t)

	// missing required fields
	rsp := call(t, p, 1, "create_event", map[string]any{"calendar": "work"})
	assert.True(t, rsp.Get("result.isError").Bool())

	// malformed date-time
	rsp = call(t, p, 2, "list_events", map[string]any{"from": "yesterday", "to": "tomorrow"})
	assert.True(t, rsp.Get("result.isError").Bool())

	// unknown property
	rsp = call(t, p, 3, "delete_event", map[string]any{"id": "x", "force": true})
	assert.True(t, rsp.Get("result.isError").Bool())
}

func TestToolErrorsStayInPayload(t *testing.T) {
	p := newTestProcessor(t)

	// unknown id is a tool-level failure carried inside the reply
	rsp := call(t, p, 1, "delete_event", map[string]any{"id": "no-such-id"})
	assert.True(t, rsp.Get("result.isError").Bool())
	assert.Contains(t, rsp.Get("result.content.0.text").String(), "event not found")
}
