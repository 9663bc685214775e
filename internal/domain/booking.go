package domain

import "time"

// BookingKind тип визита: экскурсия по учреждению или приём/занятие по услуге
type BookingKind string

const (
	KindTour        BookingKind = "tour"
	KindAppointment BookingKind = "appointment"
)

// Booking represents a single appointment occurrence.
// Recurring bookings are stored as one row per occurrence sharing SeriesID.
type Booking struct {
	ID              int64
	PatientID       int64
	ProviderID      int64
	FamilyMemberID  *int64
	ServiceID       *int64
	Kind            BookingKind
	ScheduledAt     time.Time
	DurationMinutes int
	Status          BookingStatus

	SeriesID          *string
	Recurrence        RecurrencePattern
	RecurrenceEndDate *time.Time

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still blocks its time slot
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// CanBeCancelled returns true if the status allows cancellation
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// CanBeRescheduled returns true if the status allows moving the booking in time
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsRecurring returns true if the booking belongs to a series
func (b *Booking) IsRecurring() bool {
	return b.SeriesID != nil
}

// EndsAt returns the end of the booking interval
func (b *Booking) EndsAt() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// ProviderBookingsFilter фильтр для получения бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	From            *time.Time     // Начало периода включительно (опционально)
	To              *time.Time     // Конец периода не включительно (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли неактивные бронирования
}
