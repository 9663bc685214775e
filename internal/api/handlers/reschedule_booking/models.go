package reschedule_booking

import (
	"time"

	rescheduleBooking "github.com/m04kA/AppointmentService/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	ScheduledAt string `json:"scheduledAt"` // RFC3339
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	ID                  int64   `json:"id"`
	ProviderID          int64   `json:"providerId"`
	ScheduledAt         string  `json:"scheduledAt"`
	PreviousScheduledAt string  `json:"previousScheduledAt"`
	DurationMinutes     int     `json:"durationMinutes"`
	Status              string  `json:"status"`
	Notes               *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID, userID int64) (*rescheduleBooking.Request, error) {
	scheduledAt, err := time.Parse(time.RFC3339, r.ScheduledAt)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		BookingID:   bookingID,
		UserID:      userID,
		ScheduledAt: scheduledAt,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		ID:                  resp.ID,
		ProviderID:          resp.ProviderID,
		ScheduledAt:         resp.ScheduledAt.Format(time.RFC3339),
		PreviousScheduledAt: resp.PreviousScheduledAt.Format(time.RFC3339),
		DurationMinutes:     resp.DurationMinutes,
		Status:              resp.Status,
		Notes:               resp.Notes,
	}
}
