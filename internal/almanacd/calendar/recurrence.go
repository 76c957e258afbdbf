package calendar

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/almanac-dev/almanac/internal/common/apperrors"
)

// validateRecurrence checks that rule parses as an RFC 5545 RRULE string.
func validateRecurrence(rule string) apperrors.Error {
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return ErrInvalidRecurrence.MsgErr("cannot parse recurrence rule", err)
	}
	if _, err := rrule.NewRRule(*opt); err != nil {
		return ErrInvalidRecurrence.MsgErr("cannot build recurrence rule", err)
	}
	return nil
}

// occurrences returns the intervals at which ev occupies time inside rng,
// clipped to the range. A non-recurring event yields at most one interval;
// a recurring event yields one per expansion of its rule. Recurrence rules
// are validated at write time, so a parse failure here means a stored rule
// was corrupted and the event is treated as non-recurring.
func occurrences(ev *Event, rng Interval) []Interval {
	if ev.Recurrence == "" {
		if iv, ok := clip(Interval{Start: ev.Start, End: ev.End}, rng); ok {
			return []Interval{iv}
		}
		return nil
	}

	opt, err := rrule.StrToROption(ev.Recurrence)
	if err != nil {
		if iv, ok := clip(Interval{Start: ev.Start, End: ev.End}, rng); ok {
			return []Interval{iv}
		}
		return nil
	}
	opt.Dtstart = ev.Start
	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		if iv, ok := clip(Interval{Start: ev.Start, End: ev.End}, rng); ok {
			return []Interval{iv}
		}
		return nil
	}

	// Widen the query by one occurrence length so an occurrence that starts
	// before the range but overlaps into it is not missed.
	dur := ev.Duration()
	starts := rule.Between(rng.Start.Add(-dur), rng.End, true)
	var out []Interval
	for _, t := range starts {
		if iv, ok := clip(Interval{Start: t, End: t.Add(dur)}, rng); ok {
			out = append(out, iv)
		}
	}
	return out
}

// clip intersects iv with rng. Returns false when the intersection is empty.
func clip(iv, rng Interval) (Interval, bool) {
	start := maxTime(iv.Start, rng.Start)
	end := minTime(iv.End, rng.End)
	if !end.After(start) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
