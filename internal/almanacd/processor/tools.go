package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/almanac-dev/almanac/internal/almanacd/calendar"
)

// toolHandler executes one validated tool call against the store.
type toolHandler func(p *Processor, ctx context.Context, args map[string]any) (*mcp.CallToolResult, error)

// toolDef declares one tool: its name, description, raw JSON input schema,
// and handler. Schemas are compiled and enforced by the processor.
type toolDef struct {
	name        string
	description string
	schema      string
	handler     toolHandler
}

var toolDefs = []toolDef{
	{
		name:        "list_events",
		description: "List calendar event occurrences in a time range, expanding recurring events.",
		schema: `{
			"type": "object",
			"properties": {
				"calendar": {"type": "string", "description": "Calendar name; all calendars when omitted"},
				"from": {"type": "string", "format": "date-time"},
				"to": {"type": "string", "format": "date-time"}
			},
			"required": ["from", "to"],
			"additionalProperties": false
		}`,
		handler: handleListEvents,
	},
	{
		name:        "create_event",
		description: "Create a calendar event, optionally recurring per an RFC 5545 RRULE.",
		schema: `{
			"type": "object",
			"properties": {
				"calendar": {"type": "string"},
				"title": {"type": "string"},
				"notes": {"type": "string"},
				"location": {"type": "string"},
				"start": {"type": "string", "format": "date-time"},
				"end": {"type": "string", "format": "date-time"},
				"all_day": {"type": "boolean"},
				"recurrence": {"type": "string", "description": "RFC 5545 RRULE, e.g. FREQ=WEEKLY;BYDAY=MO"}
			},
			"required": ["calendar", "title", "start", "end"],
			"additionalProperties": false
		}`,
		handler: handleCreateEvent,
	},
	{
		name:        "update_event",
		description: "Update fields of an existing event. Omitted fields are unchanged.",
		schema: `{
			"type": "object",
			"properties": {
				"id": {"type": "string"},
				"title": {"type": "string"},
				"notes": {"type": "string"},
				"location": {"type": "string"},
				"start": {"type": "string", "format": "date-time"},
				"end": {"type": "string", "format": "date-time"},
				"recurrence": {"type": "string"}
			},
			"required": ["id"],
			"additionalProperties": false
		}`,
		handler: handleUpdateEvent,
	},
	{
		name:        "delete_event",
		description: "Delete an event by id.",
		schema: `{
			"type": "object",
			"properties": {
				"id": {"type": "string"}
			},
			"required": ["id"],
			"additionalProperties": false
		}`,
		handler: handleDeleteEvent,
	},
	{
		name:        "list_reminders",
		description: "List reminders, optionally filtered by list and completion state.",
		schema: `{
			"type": "object",
			"properties": {
				"list": {"type": "string", "description": "Reminder list name; all lists when omitted"},
				"include_completed": {"type": "boolean"}
			},
			"additionalProperties": false
		}`,
		handler: handleListReminders,
	},
	{
		name:        "create_reminder",
		description: "Create a reminder on a list, with an optional due time and priority.",
		schema: `{
			"type": "object",
			"properties": {
				"list": {"type": "string"},
				"title": {"type": "string"},
				"notes": {"type": "string"},
				"due": {"type": "string", "format": "date-time"},
				"priority": {"type": "integer", "minimum": 0, "maximum": 9}
			},
			"required": ["list", "title"],
			"additionalProperties": false
		}`,
		handler: handleCreateReminder,
	},
	{
		name:        "complete_reminder",
		description: "Mark a reminder as completed.",
		schema: `{
			"type": "object",
			"properties": {
				"id": {"type": "string"}
			},
			"required": ["id"],
			"additionalProperties": false
		}`,
		handler: handleCompleteReminder,
	},
	{
		name:        "free_busy",
		description: "Compute merged busy intervals and free gaps over a time range.",
		schema: `{
			"type": "object",
			"properties": {
				"from": {"type": "string", "format": "date-time"},
				"to": {"type": "string", "format": "date-time"}
			},
			"required": ["from", "to"],
			"additionalProperties": false
		}`,
		handler: handleFreeBusy,
	},
}

// stringArg returns the string value for key, or empty when absent.
func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// boolArg returns the bool value for key, or false when absent.
func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

// intArg returns the integer value for key. JSON numbers decode as float64.
func intArg(args map[string]any, key string) int {
	f, _ := args[key].(float64)
	return int(f)
}

// timeArg parses the RFC 3339 time value for key. The second return value
// reports whether the key was present.
func timeArg(args map[string]any, key string) (time.Time, bool, error) {
	s, ok := args[key].(string)
	if !ok {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("invalid %s: %v", key, err)
	}
	return t, true, nil
}

func handleListEvents(p *Processor, ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	from, _, err := timeArg(args, "from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, _, err := timeArg(args, "to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	occ, aerr := p.store.ListEvents(stringArg(args, "calendar"), calendar.Interval{Start: from, End: to})
	if aerr != nil {
		return errorResult(aerr)
	}
	return textResult(map[string]any{
		"events": occ,
		"count":  len(occ),
	})
}

func handleCreateEvent(p *Processor, ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	start, _, err := timeArg(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, _, err := timeArg(args, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ev, aerr := p.store.CreateEvent(calendar.CreateEventParams{
		Calendar:   stringArg(args, "calendar"),
		Title:      stringArg(args, "title"),
		Notes:      stringArg(args, "notes"),
		Location:   stringArg(args, "location"),
		Start:      start,
		End:        end,
		AllDay:     boolArg(args, "all_day"),
		Recurrence: stringArg(args, "recurrence"),
	})
	if aerr != nil {
		return errorResult(aerr)
	}
	return textResult(ev)
}

func handleUpdateEvent(p *Processor, ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	var params calendar.UpdateEventParams
	if s, ok := args["title"].(string); ok {
		params.Title = &s
	}
	if s, ok := args["notes"].(string); ok {
		params.Notes = &s
	}
	if s, ok := args["location"].(string); ok {
		params.Location = &s
	}
	if s, ok := args["recurrence"].(string); ok {
		params.Recurrence = &s
	}
	if t, present, err := timeArg(args, "start"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if present {
		params.Start = &t
	}
	if t, present, err := timeArg(args, "end"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if present {
		params.End = &t
	}
	ev, aerr := p.store.UpdateEvent(stringArg(args, "id"), params)
	if aerr != nil {
		return errorResult(aerr)
	}
	return textResult(ev)
}

func handleDeleteEvent(p *Processor, ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	id := stringArg(args, "id")
	if aerr := p.store.DeleteEvent(id); aerr != nil {
		return errorResult(aerr)
	}
	return textResult(map[string]any{
		"deleted": true,
		"id":      id,
	})
}

func handleListReminders(p *Processor, ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	rems := p.store.ListReminders(stringArg(args, "list"), boolArg(args, "include_completed"))
	return textResult(map[string]any{
		"reminders": rems,
		"count":     len(rems),
	})
}

func handleCreateReminder(p *Processor, ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	params := calendar.CreateReminderParams{
		List:     stringArg(args, "list"),
		Title:    stringArg(args, "title"),
		Notes:    stringArg(args, "notes"),
		Priority: intArg(args, "priority"),
	}
	if t, present, err := timeArg(args, "due"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if present {
		params.Due = &t
	}
	rem, aerr := p.store.CreateReminder(params)
	if aerr != nil {
		return errorResult(aerr)
	}
	return textResult(rem)
}

func handleCompleteReminder(p *Processor, ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	rem, aerr := p.store.CompleteReminder(stringArg(args, "id"))
	if aerr != nil {
		return errorResult(aerr)
	}
	return textResult(rem)
}

func handleFreeBusy(p *Processor, ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	from, _, err := timeArg(args, "from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, _, err := timeArg(args, "to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, aerr := p.store.FreeBusy(calendar.Interval{Start: from, End: to})
	if aerr != nil {
		return errorResult(aerr)
	}
	return textResult(result)
}
