package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
)

// Checker проверяет, не занято ли время у провайдера
type Checker struct {
	repo       BookingRepository
	tourWindow time.Duration
}

// NewChecker создает проверку конфликтов
// tourWindow - окно для экскурсий и для приёмов с неизвестной длительностью
func NewChecker(repo BookingRepository, tourWindow time.Duration) *Checker {
	if tourWindow <= 0 {
		tourWindow = domain.TourConflictWindow
	}
	return &Checker{repo: repo, tourWindow: tourWindow}
}

// Window окно конфликта для вида визита
// Для экскурсии фиксированное окно, для приёма длительность услуги
func (c *Checker) Window(kind domain.BookingKind, serviceDurationMinutes int) time.Duration {
	if kind == domain.KindAppointment && serviceDurationMinutes > 0 {
		return time.Duration(serviceDurationMinutes) * time.Minute
	}
	return c.tourWindow
}

// HasConflict возвращает true, если у провайдера есть активное бронирование
// со scheduled_at строго внутри (at-window, at+window).
// excludeID исключает само бронирование при переносе.
// Внутри транзакции репозиторий блокирует найденные строки.
func (c *Checker) HasConflict(ctx context.Context, providerID int64, at time.Time, window time.Duration, excludeID *int64) (bool, error) {
	conflict, err := c.repo.HasConflict(ctx, providerID, at.Add(-window), at.Add(window), excludeID)
	if err != nil {
		return false, fmt.Errorf("%w: HasConflict provider=%d at=%s: %v", ErrInternal, providerID, at.Format(time.RFC3339), err)
	}
	return conflict, nil
}
