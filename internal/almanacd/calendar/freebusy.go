package calendar

import (
	"sort"

	"github.com/almanac-dev/almanac/internal/common/apperrors"
)

// FreeBusy merges the busy intervals of all events intersecting the query
// range, recurrences expanded, and returns the merged busy list together
// with the complementary free gaps. All-day events count as busy for their
// whole span.
func (s *Store) FreeBusy(rng Interval) (*FreeBusyResult, apperrors.Error) {
	if !rng.End.After(rng.Start) {
		return nil, ErrInvalidRange
	}

	s.mu.RLock()
	var intervals []Interval
	for _, ev := range s.events {
		intervals = append(intervals, occurrences(ev, rng)...)
	}
	s.mu.RUnlock()

	busy := mergeIntervals(intervals)
	free := invertIntervals(busy, rng)

	return &FreeBusyResult{
		Range: rng,
		Busy:  busy,
		Free:  free,
	}, nil
}

// mergeIntervals sorts intervals by start and coalesces overlapping or
// touching spans into a minimal busy list.
func mergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})
	merged := []Interval{intervals[0]}
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// invertIntervals returns the gaps of rng not covered by the merged, sorted
// busy list.
func invertIntervals(busy []Interval, rng Interval) []Interval {
	var free []Interval
	cursor := rng.Start
	for _, iv := range busy {
		if iv.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: iv.Start})
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}
	if rng.End.After(cursor) {
		free = append(free, Interval{Start: cursor, End: rng.End})
	}
	return free
}
