package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
	"github.com/m04kA/AppointmentService/internal/integrations/notificationservice"
	"github.com/m04kA/AppointmentService/internal/integrations/providerservice"
	"github.com/m04kA/AppointmentService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ConflictChecker проверка занятости времени у провайдера
type ConflictChecker interface {
	Window(kind domain.BookingKind, serviceDurationMinutes int) time.Duration
	HasConflict(ctx context.Context, providerID int64, at time.Time, window time.Duration, excludeID *int64) (bool, error)
}

// RecurrenceExpander разворачивание серии в даты вхождений
type RecurrenceExpander interface {
	Expand(pattern domain.RecurrencePattern, start, end time.Time) []time.Time
	DefaultEndDate(start time.Time) time.Time
	NewSeriesID() string
}

// SettingsProvider действующие настройки бронирования с учетом иерархии
type SettingsProvider interface {
	GetEffective(ctx context.Context, providerID int64, serviceID *int64) (*domain.ProviderBookingSettings, error)
}

// ProviderServiceClient интерфейс клиента каталога провайдеров
type ProviderServiceClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerservice.Provider, error)
	GetService(ctx context.Context, providerID, serviceID int64) (*providerservice.Service, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetFamilyMember(ctx context.Context, patientID, memberID int64) (*userservice.FamilyMember, error)
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
