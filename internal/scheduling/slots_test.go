package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaySlotsCoversWorkingHours(t *testing.T) {
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	slots := DaySlots(date, nil)

	require.Len(t, slots, 20)
	assert.Equal(t, "08:00", slots[0].Time)
	assert.Equal(t, "08:30", slots[1].Time)
	assert.Equal(t, "17:30", slots[19].Time)
	for _, s := range slots {
		assert.True(t, s.Available, "slot %s should be free on an empty day", s.Time)
	}
}

func TestDaySlotsMarksBookedTimes(t *testing.T) {
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	booked := []time.Time{
		at(9, 0),
		at(14, 30),
	}

	slots := DaySlots(date, booked)

	byTime := make(map[string]bool, len(slots))
	for _, s := range slots {
		byTime[s.Time] = s.Available
	}

	assert.False(t, byTime["09:00"])
	assert.False(t, byTime["14:30"])
	assert.True(t, byTime["08:30"])
	assert.True(t, byTime["09:30"])
	assert.True(t, byTime["14:00"])
}

func TestDaySlotsIgnoresOffGridBookings(t *testing.T) {
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	// A booking at 09:15 does not line up with any half-hour bucket;
	// slot display leaves the grid untouched and the conflict check is
	// what prevents double booking.
	slots := DaySlots(date, []time.Time{at(9, 15)})

	for _, s := range slots {
		assert.True(t, s.Available, "slot %s", s.Time)
	}
}
