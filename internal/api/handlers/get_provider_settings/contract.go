package get_provider_settings

import (
	"context"

	"github.com/m04kA/AppointmentService/internal/domain"
)

type SettingsService interface {
	GetEffective(ctx context.Context, providerID int64, serviceID *int64) (*domain.ProviderBookingSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
