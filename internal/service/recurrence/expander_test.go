package recurrence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AppointmentService/internal/domain"
)

func TestExpander_Weekly(t *testing.T) {
	e := NewExpander(90, 104)
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)

	got := e.Expand(domain.RecurrenceWeekly, start, start.AddDate(0, 0, 28))

	require.Len(t, got, 5)
	assert.Equal(t, start, got[0])
	for i := 1; i < len(got); i++ {
		assert.Equal(t, 7*24*time.Hour, got[i].Sub(got[i-1]))
	}
}

func TestExpander_Biweekly(t *testing.T) {
	e := NewExpander(90, 104)
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)

	got := e.Expand(domain.RecurrenceBiweekly, start, start.AddDate(0, 0, 28))

	require.Len(t, got, 3)
	assert.Equal(t, start.AddDate(0, 0, 28), got[2])
}

func TestExpander_MonthlyClamping(t *testing.T) {
	e := NewExpander(90, 104)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []time.Time
	}{
		{
			name:  "non leap year",
			start: time.Date(2027, 1, 31, 9, 0, 0, 0, time.UTC),
			end:   time.Date(2027, 4, 30, 0, 0, 0, 0, time.UTC),
			want: []time.Time{
				time.Date(2027, 1, 31, 9, 0, 0, 0, time.UTC),
				time.Date(2027, 2, 28, 9, 0, 0, 0, time.UTC),
				time.Date(2027, 3, 31, 9, 0, 0, 0, time.UTC),
				time.Date(2027, 4, 30, 9, 0, 0, 0, time.UTC),
			},
		},
		{
			name:  "leap year",
			start: time.Date(2028, 1, 31, 9, 0, 0, 0, time.UTC),
			end:   time.Date(2028, 3, 1, 0, 0, 0, 0, time.UTC),
			want: []time.Time{
				time.Date(2028, 1, 31, 9, 0, 0, 0, time.UTC),
				time.Date(2028, 2, 29, 9, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Expand(domain.RecurrenceMonthly, tt.start, tt.end))
		})
	}
}

func TestExpander_EndComparedByDate(t *testing.T) {
	e := NewExpander(90, 104)
	start := time.Date(2026, 11, 2, 15, 0, 0, 0, time.UTC)

	// конец в полночь того же дня, что и третье вхождение
	got := e.Expand(domain.RecurrenceWeekly, start, time.Date(2026, 11, 16, 0, 0, 0, 0, time.UTC))

	assert.Len(t, got, 3)
}

func TestExpander_StartAfterEnd(t *testing.T) {
	e := NewExpander(90, 104)
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)

	got := e.Expand(domain.RecurrenceWeekly, start, start.AddDate(0, 0, -3))

	assert.Equal(t, []time.Time{start}, got)
}

func TestExpander_None(t *testing.T) {
	e := NewExpander(90, 104)
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, []time.Time{start}, e.Expand(domain.RecurrenceNone, start, start.AddDate(1, 0, 0)))
}

func TestExpander_MaxOccurrences(t *testing.T) {
	e := NewExpander(90, 4)
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)

	got := e.Expand(domain.RecurrenceWeekly, start, start.AddDate(1, 0, 0))

	assert.Len(t, got, 4)
}

func TestExpander_DefaultEndAndSeriesID(t *testing.T) {
	e := NewExpander(90, 104)
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, start.Add(90*24*time.Hour), e.DefaultEndDate(start))

	id := e.NewSeriesID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, e.NewSeriesID())
}
