// Package calendar implements the in-memory event and reminder store behind
// the almanac tools: CRUD over events and reminders, recurrence expansion,
// and free/busy computation. The store keeps no history and no persistence.
package calendar

import (
	"time"
)

// Event is one calendar entry. A non-empty Recurrence holds an RFC 5545
// RRULE string; the first occurrence starts at Start.
type Event struct {
	ID         string    `json:"id"`
	Calendar   string    `json:"calendar"`
	Title      string    `json:"title"`
	Notes      string    `json:"notes,omitempty"`
	Location   string    `json:"location,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	AllDay     bool      `json:"all_day,omitempty"`
	Recurrence string    `json:"recurrence,omitempty"`
}

// Duration returns the length of one occurrence of the event.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Reminder is one entry on a reminder list.
type Reminder struct {
	ID        string     `json:"id"`
	List      string     `json:"list"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Due       *time.Time `json:"due,omitempty"`
	Priority  int        `json:"priority,omitempty"`
	Completed bool       `json:"completed"`
}

// Occurrence is one concrete instance of an event inside a query range.
// Recurring events yield one occurrence per expansion.
type Occurrence struct {
	EventID  string    `json:"event_id"`
	Calendar string    `json:"calendar"`
	Title    string    `json:"title"`
	Notes    string    `json:"notes,omitempty"`
	Location string    `json:"location,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day,omitempty"`
}

// Interval is a half-open time span [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FreeBusyResult holds the merged busy intervals and the complementary free
// gaps for a query range.
type FreeBusyResult struct {
	Range Interval   `json:"range"`
	Busy  []Interval `json:"busy"`
	Free  []Interval `json:"free"`
}

// CreateEventParams carries the fields for creating an event.
type CreateEventParams struct {
	Calendar   string    `json:"calendar" validate:"required"`
	Title      string    `json:"title" validate:"required"`
	Notes      string    `json:"notes"`
	Location   string    `json:"location"`
	Start      time.Time `json:"start" validate:"required"`
	End        time.Time `json:"end" validate:"required,gtfield=Start"`
	AllDay     bool      `json:"all_day"`
	Recurrence string    `json:"recurrence"`
}

// UpdateEventParams carries sparse fields for updating an event. Nil fields
// are left unchanged.
type UpdateEventParams struct {
	Title      *string    `json:"title"`
	Notes      *string    `json:"notes"`
	Location   *string    `json:"location"`
	Start      *time.Time `json:"start"`
	End        *time.Time `json:"end"`
	Recurrence *string    `json:"recurrence"`
}

// CreateReminderParams carries the fields for creating a reminder.
type CreateReminderParams struct {
	List     string     `json:"list" validate:"required"`
	Title    string     `json:"title" validate:"required"`
	Notes    string     `json:"notes"`
	Due      *time.Time `json:"due"`
	Priority int        `json:"priority" validate:"gte=0,lte=9"`
}
