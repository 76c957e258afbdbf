package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeBusyEmptyStore(t *testing.T) {
	s := NewStore()
	rng := Interval{Start: day(10, 9, 0), End: day(10, 17, 0)}

	res, err := s.FreeBusy(rng)
	require.NoError(t, err)
	assert.Empty(t, res.Busy)
	require.Len(t, res.Free, 1)
	assert.Equal(t, rng, res.Free[0])
}

func TestFreeBusyMergesOverlaps(t *testing.T) {
	s := NewStore()
	mk := func(start, end time.Time) {
		t.Helper()
		_, err := s.CreateEvent(CreateEventParams{Calendar: "work", Title: "busy", Start: start, End: end})
		require.NoError(t, err)
	}
	// two overlapping blocks, one touching block, one separate block
	mk(day(10, 9, 0), day(10, 10, 30))
	mk(day(10, 10, 0), day(10, 11, 0))
	mk(day(10, 11, 0), day(10, 12, 0))
	mk(day(10, 14, 0), day(10, 15, 0))

	rng := Interval{Start: day(10, 8, 0), End: day(10, 18, 0)}
	res, err := s.FreeBusy(rng)
	require.NoError(t, err)

	require.Len(t, res.Busy, 2)
	assert.Equal(t, Interval{Start: day(10, 9, 0), End: day(10, 12, 0)}, res.Busy[0])
	assert.Equal(t, Interval{Start: day(10, 14, 0), End: day(10, 15, 0)}, res.Busy[1])

	require.Len(t, res.Free, 3)
	assert.Equal(t, Interval{Start: day(10, 8, 0), End: day(10, 9, 0)}, res.Free[0])
	assert.Equal(t, Interval{Start: day(10, 12, 0), End: day(10, 14, 0)}, res.Free[1])
	assert.Equal(t, Interval{Start: day(10, 15, 0), End: day(10, 18, 0)}, res.Free[2])
}

func TestFreeBusyClipsToRange(t *testing.T) {
	s := NewStore()
	_, err := s.CreateEvent(CreateEventParams{
		Calendar: "work",
		Title:    "spills over",
		Start:    day(10, 7, 0),
		End:      day(10, 9, 30),
	})
	require.NoError(t, err)

	rng := Interval{Start: day(10, 9, 0), End: day(10, 12, 0)}
	res, ferr := s.FreeBusy(rng)
	require.NoError(t, ferr)
	require.Len(t, res.Busy, 1)
	assert.Equal(t, Interval{Start: day(10, 9, 0), End: day(10, 9, 30)}, res.Busy[0])
}

func TestFreeBusyExpandsRecurrence(t *testing.T) {
	s := NewStore()
	_, err := s.CreateEvent(CreateEventParams{
		Calendar:   "work",
		Title:      "standup",
		Start:      day(9, 9, 0),
		End:        day(9, 9, 30),
		Recurrence: "FREQ=DAILY;COUNT=3",
	})
	require.NoError(t, err)

	res, ferr := s.FreeBusy(Interval{Start: day(9, 0, 0), End: day(12, 0, 0)})
	require.NoError(t, ferr)
	require.Len(t, res.Busy, 3)
	for i, iv := range res.Busy {
		assert.Equal(t, day(9+i, 9, 0), iv.Start)
		assert.Equal(t, day(9+i, 9, 30), iv.End)
	}
	// three busy slots leave four gaps across the range
	assert.Len(t, res.Free, 4)
}

func TestFreeBusyInvalidRange(t *testing.T) {
	s := NewStore()
	_, err := s.FreeBusy(Interval{Start: day(10, 12, 0), End: day(10, 12, 0)})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestMergeIntervals(t *testing.T) {
	assert.Nil(t, mergeIntervals(nil))

	out := mergeIntervals([]Interval{
		{Start: day(1, 12, 0), End: day(1, 13, 0)},
		{Start: day(1, 9, 0), End: day(1, 11, 0)},
		{Start: day(1, 10, 0), End: day(1, 10, 30)}, // contained
	})
	require.Len(t, out, 2)
	assert.Equal(t, Interval{Start: day(1, 9, 0), End: day(1, 11, 0)}, out[0])
	assert.Equal(t, Interval{Start: day(1, 12, 0), End: day(1, 13, 0)}, out[1])
}
