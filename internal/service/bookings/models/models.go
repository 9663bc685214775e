package models

import (
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// CancelSeriesRequest запрос на отмену всех будущих вхождений серии
type CancelSeriesRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetPatientBookingsRequest запрос на получение бронирований пациента
type GetPatientBookingsRequest struct {
	UserID    int64   `json:"userId"` // кто запрашивает
	PatientID int64   `json:"patientId"`
	Status    *string `json:"status,omitempty"`
}

// GetProviderBookingsRequest запрос на получение бронирований провайдера
type GetProviderBookingsRequest struct {
	UserID          int64      `json:"userId"`
	ProviderID      int64      `json:"providerId"`
	From            *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершённые и отменённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      r.ProviderID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                int64   `json:"id"`
	PatientID         int64   `json:"patientId"`
	ProviderID        int64   `json:"providerId"`
	FamilyMemberID    *int64  `json:"familyMemberId,omitempty"`
	ServiceID         *int64  `json:"serviceId,omitempty"`
	Kind              string  `json:"kind"`
	ScheduledAt       string  `json:"scheduledAt"` // RFC3339
	DurationMinutes   int     `json:"durationMinutes"`
	Status            string  `json:"status"`
	SeriesID          *string `json:"seriesId,omitempty"`
	Recurrence        string  `json:"recurrence"`
	RecurrenceEndDate *string `json:"recurrenceEndDate,omitempty"` // YYYY-MM-DD
	Notes             *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // RFC3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CancelSeriesResponse ответ с отменёнными вхождениями серии
type CancelSeriesResponse struct {
	SeriesID     string  `json:"seriesId"`
	CancelledIDs []int64 `json:"cancelledIds"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		PatientID:          b.PatientID,
		ProviderID:         b.ProviderID,
		FamilyMemberID:     b.FamilyMemberID,
		ServiceID:          b.ServiceID,
		Kind:               string(b.Kind),
		ScheduledAt:        b.ScheduledAt.Format(time.RFC3339),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		SeriesID:           b.SeriesID,
		Recurrence:         string(b.Recurrence),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.RecurrenceEndDate != nil {
		end := b.RecurrenceEndDate.Format(domain.DateFormat)
		resp.RecurrenceEndDate = &end
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s, ok := domain.ParseBookingStatus(status)
	if !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}
