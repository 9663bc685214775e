package recurrence

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/AppointmentService/internal/domain"
)

// Expander разворачивает шаблон повторения в конкретные даты вхождений
type Expander struct {
	defaultHorizon time.Duration
	maxOccurrences int
}

// NewExpander создает экспандер
// defaultDays - горизонт серии, если дата окончания не указана
// maxOccurrences - верхняя граница количества вхождений в одной серии
func NewExpander(defaultDays, maxOccurrences int) *Expander {
	if defaultDays <= 0 {
		defaultDays = domain.DefaultRecurrenceDays
	}
	if maxOccurrences <= 0 {
		maxOccurrences = domain.DefaultMaxOccurrences
	}
	return &Expander{
		defaultHorizon: time.Duration(defaultDays) * 24 * time.Hour,
		maxOccurrences: maxOccurrences,
	}
}

// Expand возвращает вхождения серии в порядке возрастания
//
// Первое вхождение всегда start, даже если start позже end.
// Граница end включительная и сравнивается по календарной дате
// в часовом поясе start. Для RecurrenceNone возвращается [start].
func (e *Expander) Expand(pattern domain.RecurrencePattern, start, end time.Time) []time.Time {
	occurrences := []time.Time{start}
	if !pattern.IsRecurring() {
		return occurrences
	}

	last := dateOnly(end.In(start.Location()))

	for i := 1; len(occurrences) < e.maxOccurrences; i++ {
		next := advance(pattern, start, i)
		if dateOnly(next).After(last) {
			break
		}
		occurrences = append(occurrences, next)
	}

	return occurrences
}

// DefaultEndDate дата окончания серии по умолчанию
func (e *Expander) DefaultEndDate(start time.Time) time.Time {
	return start.Add(e.defaultHorizon)
}

// NewSeriesID выдаёт новый идентификатор серии
func (e *Expander) NewSeriesID() string {
	return uuid.NewString()
}

// advance вычисляет n-ое вхождение от исходного start
// Месяцы считаются от start, поэтому 31 января даёт 28/29 февраля, 31 марта, 30 апреля
func advance(pattern domain.RecurrencePattern, start time.Time, n int) time.Time {
	switch pattern {
	case domain.RecurrenceWeekly:
		return start.AddDate(0, 0, 7*n)
	case domain.RecurrenceBiweekly:
		return start.AddDate(0, 0, 14*n)
	case domain.RecurrenceMonthly:
		return addMonthsClamped(start, n)
	default:
		return start
	}
}

// addMonthsClamped прибавляет месяцы, прижимая день к последнему дню короткого месяца
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := daysIn(firstOfTarget.Year(), firstOfTarget.Month(), t.Location())
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
