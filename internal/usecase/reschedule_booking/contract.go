package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
	"github.com/m04kA/AppointmentService/internal/integrations/notificationservice"
	"github.com/m04kA/AppointmentService/internal/integrations/providerservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Reschedule(ctx context.Context, id int64, scheduledAt time.Time, status domain.BookingStatus, notes *string) error
}

// ConflictChecker проверка занятости времени у провайдера
type ConflictChecker interface {
	Window(kind domain.BookingKind, serviceDurationMinutes int) time.Duration
	HasConflict(ctx context.Context, providerID int64, at time.Time, window time.Duration, excludeID *int64) (bool, error)
}

// SettingsProvider действующие настройки бронирования с учетом иерархии
type SettingsProvider interface {
	GetEffective(ctx context.Context, providerID int64, serviceID *int64) (*domain.ProviderBookingSettings, error)
}

// ProviderServiceClient интерфейс клиента каталога провайдеров
type ProviderServiceClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerservice.Provider, error)
}

// Notifier отправляет уведомления в фоне
type Notifier interface {
	Notify(n notificationservice.Notification)
}

// AvailabilityCache кеш рассчитанной доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, providerID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
