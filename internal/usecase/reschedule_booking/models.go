package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID   int64
	UserID      int64     // кто переносит: пациент или менеджер провайдера
	ScheduledAt time.Time // новое время
}

// Response модель ответа с перенесённым бронированием
type Response struct {
	ID                  int64
	ProviderID          int64
	ScheduledAt         time.Time
	PreviousScheduledAt time.Time
	DurationMinutes     int
	Status              string
	Notes               *string
}
