package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
	"github.com/m04kA/AppointmentService/internal/infra/cache/slots"
	"github.com/m04kA/AppointmentService/internal/integrations/providerservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
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

// AvailabilityCache кеш рассчитанной доступности
type AvailabilityCache interface {
	Get(ctx context.Context, key slots.Key) ([]domain.DayAvailability, int64, bool, error)
	Set(ctx context.Context, key slots.Key, version int64, days []domain.DayAvailability) error
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
