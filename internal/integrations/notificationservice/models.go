package notificationservice

import "time"

// Event тип события для уведомления
type Event string

const (
	EventBookingCreated     Event = "booking.created"
	EventBookingCancelled   Event = "booking.cancelled"
	EventBookingRescheduled Event = "booking.rescheduled"
	EventBookingStatus      Event = "booking.status_changed"
)

// Notification уведомление о событии бронирования
type Notification struct {
	Event       Event     `json:"event"`
	ProviderID  int64     `json:"provider_id"`
	PatientID   int64     `json:"patient_id"`
	BookingIDs  []int64   `json:"booking_ids"`
	SeriesID    *string   `json:"series_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status,omitempty"`
}
