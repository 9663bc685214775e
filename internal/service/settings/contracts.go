package settings

import (
	"context"

	"github.com/m04kA/AppointmentService/internal/domain"
	"github.com/m04kA/AppointmentService/internal/integrations/providerservice"
)

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	Create(ctx context.Context, s *domain.ProviderBookingSettings) (*domain.ProviderBookingSettings, error)
	GetByID(ctx context.Context, id int64) (*domain.ProviderBookingSettings, error)
	GetWithHierarchy(ctx context.Context, providerID int64, serviceID *int64) (*domain.ProviderBookingSettings, error)
	GetAllByProvider(ctx context.Context, providerID int64) ([]*domain.ProviderBookingSettings, error)
	Update(ctx context.Context, id int64, s *domain.ProviderBookingSettings) (*domain.ProviderBookingSettings, error)
	Delete(ctx context.Context, id int64) error
}

// ProviderServiceClient интерфейс клиента каталога провайдеров
type ProviderServiceClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerservice.Provider, error)
	GetService(ctx context.Context, providerID, serviceID int64) (*providerservice.Service, error)
}

// AvailabilityCache кеш рассчитанной доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, providerID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
