package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseWeekday(t *testing.T) {
	day, ok := ParseWeekday("Wed")
	assert.True(t, ok)
	assert.Equal(t, time.Wednesday, day)

	_, ok = ParseWeekday("wednesday")
	assert.False(t, ok)

	assert.Equal(t, "Sun", WeekdayToken(time.Sunday))
}

func TestOperatingProfile_IsOpenOn(t *testing.T) {
	p := OperatingProfile{OperatingDays: []time.Weekday{time.Monday, time.Friday}}

	assert.True(t, p.IsOpenOn(time.Friday))
	assert.False(t, p.IsOpenOn(time.Saturday))
	assert.False(t, OperatingProfile{}.IsOpenOn(time.Monday))
}

func TestProviderStatus_IsBookable(t *testing.T) {
	assert.True(t, ProviderApproved.IsBookable())
	assert.True(t, ProviderActive.IsBookable())
	assert.False(t, ProviderPending.IsBookable())
	assert.False(t, ProviderSuspended.IsBookable())
}

func TestParseRecurrencePattern(t *testing.T) {
	p, ok := ParseRecurrencePattern("")
	assert.True(t, ok)
	assert.Equal(t, RecurrenceNone, p)

	p, ok = ParseRecurrencePattern("biweekly")
	assert.True(t, ok)
	assert.True(t, p.IsRecurring())

	_, ok = ParseRecurrencePattern("daily")
	assert.False(t, ok)
}
