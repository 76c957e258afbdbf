// Package-level error variables for calendar, representing lookup,
// validation, and recurrence errors for the in-memory store.
package calendar

import (
	"net/http"

	"github.com/almanac-dev/almanac/internal/common/apperrors"
)

var (
	// ErrCalendarError is the base error for calendar store errors.
	ErrCalendarError apperrors.Error = apperrors.New("calendar error").SetStatusCode(http.StatusInternalServerError)

	// ErrEventNotFound is returned when an event id does not exist.
	ErrEventNotFound apperrors.Error = ErrCalendarError.New("event not found").SetStatusCode(http.StatusNotFound)

	// ErrReminderNotFound is returned when a reminder id does not exist.
	ErrReminderNotFound apperrors.Error = ErrCalendarError.New("reminder not found").SetStatusCode(http.StatusNotFound)

	// ErrValidation is returned when entity parameters fail validation.
	ErrValidation apperrors.Error = ErrCalendarError.New("invalid parameters").SetStatusCode(http.StatusBadRequest).SetExpandError(true)

	// ErrInvalidRecurrence is returned for recurrence rules that do not parse
	// as RFC 5545 RRULE strings.
	ErrInvalidRecurrence apperrors.Error = ErrValidation.New("invalid recurrence rule").SetStatusCode(http.StatusBadRequest)

	// ErrInvalidRange is returned when a query range is empty or inverted.
	ErrInvalidRange apperrors.Error = ErrValidation.New("invalid time range").SetStatusCode(http.StatusBadRequest)
)
