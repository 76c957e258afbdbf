package calendar

import (
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/almanac-dev/almanac/internal/common/apperrors"
	"github.com/almanac-dev/almanac/internal/common/uuid"
)

// Store is the in-memory calendar and reminder store. All operations are
// safe for concurrent use, though in the running server the sequential
// message processor is the only caller.
type Store struct {
	mu        sync.RWMutex
	events    map[string]*Event
	reminders map[string]*Reminder
	validate  *validator.Validate
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		events:    make(map[string]*Event),
		reminders: make(map[string]*Reminder),
		validate:  validator.New(),
	}
}

// CreateEvent validates the parameters and adds a new event with a fresh id.
func (s *Store) CreateEvent(p CreateEventParams) (*Event, apperrors.Error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, ErrValidation.MsgErr("invalid event", err)
	}
	if p.Recurrence != "" {
		if err := validateRecurrence(p.Recurrence); err != nil {
			return nil, err
		}
	}
	ev := &Event{
		ID:         uuid.New().String(),
		Calendar:   p.Calendar,
		Title:      p.Title,
		Notes:      p.Notes,
		Location:   p.Location,
		Start:      p.Start,
		End:        p.End,
		AllDay:     p.AllDay,
		Recurrence: p.Recurrence,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.ID] = ev
	cp := *ev
	return &cp, nil
}

// GetEvent returns a copy of the event with the given id.
func (s *Store) GetEvent(id string) (*Event, apperrors.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

// UpdateEvent applies the non-nil fields of p to the event with the given
// id. The updated event must still satisfy the start-before-end invariant.
func (s *Store) UpdateEvent(id string, p UpdateEventParams) (*Event, apperrors.Error) {
	if p.Recurrence != nil && *p.Recurrence != "" {
		if err := validateRecurrence(*p.Recurrence); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	updated := *ev
	if p.Title != nil {
		updated.Title = *p.Title
	}
	if p.Notes != nil {
		updated.Notes = *p.Notes
	}
	if p.Location != nil {
		updated.Location = *p.Location
	}
	if p.Start != nil {
		updated.Start = *p.Start
	}
	if p.End != nil {
		updated.End = *p.End
	}
	if p.Recurrence != nil {
		updated.Recurrence = *p.Recurrence
	}
	if !updated.End.After(updated.Start) {
		return nil, ErrValidation.Msg("event end must be after start")
	}
	*ev = updated
	cp := updated
	return &cp, nil
}

// DeleteEvent removes the event with the given id.
func (s *Store) DeleteEvent(id string) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

// ListEvents returns all occurrences intersecting [from, to), recurrences
// expanded, sorted by start time. An empty calendar name matches all
// calendars.
func (s *Store) ListEvents(calendar string, rng Interval) ([]Occurrence, apperrors.Error) {
	if !rng.End.After(rng.Start) {
		return nil, ErrInvalidRange
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Occurrence
	for _, ev := range s.events {
		if calendar != "" && ev.Calendar != calendar {
			continue
		}
		for _, iv := range occurrences(ev, rng) {
			out = append(out, Occurrence{
				EventID:  ev.ID,
				Calendar: ev.Calendar,
				Title:    ev.Title,
				Notes:    ev.Notes,
				Location: ev.Location,
				Start:    iv.Start,
				End:      iv.End,
				AllDay:   ev.AllDay,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].EventID < out[j].EventID
	})
	return out, nil
}

// CreateReminder validates the parameters and adds a new reminder.
func (s *Store) CreateReminder(p CreateReminderParams) (*Reminder, apperrors.Error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, ErrValidation.MsgErr("invalid reminder", err)
	}
	rem := &Reminder{
		ID:       uuid.New().String(),
		List:     p.List,
		Title:    p.Title,
		Notes:    p.Notes,
		Due:      p.Due,
		Priority: p.Priority,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders[rem.ID] = rem
	cp := *rem
	return &cp, nil
}

// ListReminders returns reminders, optionally filtered by list name, sorted
// by due time with undated reminders last. Completed reminders are included
// only when includeCompleted is set.
func (s *Store) ListReminders(list string, includeCompleted bool) []Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Reminder
	for _, rem := range s.reminders {
		if list != "" && rem.List != list {
			continue
		}
		if rem.Completed && !includeCompleted {
			continue
		}
		out = append(out, *rem)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Due, out[j].Due
		switch {
		case a == nil && b == nil:
			return out[i].ID < out[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CompleteReminder marks the reminder with the given id as completed.
func (s *Store) CompleteReminder(id string) (*Reminder, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rem, ok := s.reminders[id]
	if !ok {
		return nil, ErrReminderNotFound
	}
	rem.Completed = true
	cp := *rem
	return &cp, nil
}
