package cancel_series

import (
	"github.com/m04kA/AppointmentService/internal/service/bookings/models"
)

// CancelSeriesRequest HTTP request model, тело необязательно
type CancelSeriesRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelSeriesRequest) ToServiceRequest(userID int64) *models.CancelSeriesRequest {
	return &models.CancelSeriesRequest{
		UserID:             userID,
		CancellationReason: r.CancellationReason,
	}
}
