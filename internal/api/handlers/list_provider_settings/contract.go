package list_provider_settings

import (
	"context"

	"github.com/m04kA/AppointmentService/internal/service/settings/models"
)

type SettingsService interface {
	GetAllByProvider(ctx context.Context, providerID int64, userID int64) (*models.SettingsListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
