package update_provider_settings

import (
	"context"

	"github.com/m04kA/AppointmentService/internal/domain"
	"github.com/m04kA/AppointmentService/internal/service/settings/models"
)

type SettingsService interface {
	GetEffective(ctx context.Context, providerID int64, serviceID *int64) (*domain.ProviderBookingSettings, error)
	Create(ctx context.Context, req *models.CreateSettingsRequest) (*models.SettingsResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
