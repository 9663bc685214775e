package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
)

// Params параметры расчёта доступности
type Params struct {
	DaysAhead   int            // горизонт: сегодня + DaysAhead дней включительно
	SlotMinutes int            // шаг и длина слота
	LeadTime    time.Duration  // слоты раньше now+LeadTime недоступны
	Location    *time.Location // часовой пояс часов работы
}

// CalculateAvailability проецирует часы работы провайдера на дни горизонта
// и помечает слоты, занятые активными бронированиями или попадающие в lead time
//
// Чистая функция: результат зависит только от аргументов
// Примеры (09:00-17:00, шаг 30):
// - рабочий день → 16 слотов 09:00..16:30
// - выходной день → день есть в ответе, слотов 0
// - бронь 10:00 на 60 минут → 10:00 и 10:30 заняты, 09:30 и 11:00 свободны (граничат)
func CalculateAvailability(
	profile domain.OperatingProfile,
	bookings []*domain.Booking,
	params Params,
	now time.Time,
) ([]domain.DayAvailability, error) {
	if params.SlotMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot minutes must be positive", ErrInvalidInput)
	}
	if params.DaysAhead < 0 {
		return nil, fmt.Errorf("%w: days ahead must not be negative", ErrInvalidInput)
	}

	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}

	step := time.Duration(params.SlotMinutes) * time.Minute
	cutoff := now.Add(params.LeadTime)
	today := startOfDay(now, loc)

	days := make([]domain.DayAvailability, 0, params.DaysAhead+1)
	for i := 0; i <= params.DaysAhead; i++ {
		date := today.AddDate(0, 0, i)
		day := domain.DayAvailability{Date: date, Slots: []domain.Slot{}}

		if profile.IsOpenOn(date.Weekday()) {
			opening, err := profile.OpeningTime.On(date, loc)
			if err != nil {
				return nil, fmt.Errorf("%w: opening time: %v", ErrInvalidInput, err)
			}
			closing, err := profile.ClosingTime.On(date, loc)
			if err != nil {
				return nil, fmt.Errorf("%w: closing time: %v", ErrInvalidInput, err)
			}

			for start := opening; !start.Add(step).After(closing); start = start.Add(step) {
				day.Slots = append(day.Slots, domain.Slot{
					StartTime: start,
					Available: !start.Before(cutoff) && !isOccupied(start, start.Add(step), bookings, step),
				})
			}
		}

		days = append(days, day)
	}

	return days, nil
}

// isOccupied есть ли активная бронь, строго пересекающая [start, end)
// Брони, граничащие со слотом, пересечением не считаются
func isOccupied(start, end time.Time, bookings []*domain.Booking, fallback time.Duration) bool {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}

		duration := time.Duration(b.DurationMinutes) * time.Minute
		if duration <= 0 {
			duration = fallback
		}

		if b.ScheduledAt.Before(end) && b.ScheduledAt.Add(duration).After(start) {
			return true
		}
	}
	return false
}

// applyLeadTime помечает недоступными слоты раньше cutoff
// Нужен для результата из кеша, рассчитанного при другом now
func applyLeadTime(days []domain.DayAvailability, cutoff time.Time) {
	for i := range days {
		for j := range days[i].Slots {
			if days[i].Slots[j].StartTime.Before(cutoff) {
				days[i].Slots[j].Available = false
			}
		}
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
