package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
	createBooking "github.com/m04kA/AppointmentService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProviderID        int64   `json:"providerId"`
	FamilyMemberID    *int64  `json:"familyMemberId,omitempty"`
	ServiceID         *int64  `json:"serviceId,omitempty"`
	Kind              string  `json:"kind,omitempty"`              // tour | appointment
	ScheduledAt       string  `json:"scheduledAt"`                 // RFC3339
	Notes             *string `json:"notes,omitempty"`
	Recurrence        string  `json:"recurrence,omitempty"`        // none | weekly | biweekly | monthly
	RecurrenceEndDate *string `json:"recurrenceEndDate,omitempty"` // YYYY-MM-DD
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	BookingIDs      []int64  `json:"bookingIds"`
	SeriesID        *string  `json:"seriesId,omitempty"`
	Occurrences     []string `json:"occurrences"`
	Status          string   `json:"status"`
	DurationMinutes int      `json:"durationMinutes"`
}

// ConflictResponse тело 409 с датой занятого вхождения
type ConflictResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Дата окончания серии берётся в часовом поясе начала и включает весь день
func (r *CreateBookingRequest) ToUseCaseRequest(patientID int64) (*createBooking.Request, error) {
	scheduledAt, err := time.Parse(time.RFC3339, r.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("scheduledAt: %w", err)
	}

	req := &createBooking.Request{
		PatientID:      patientID,
		ProviderID:     r.ProviderID,
		FamilyMemberID: r.FamilyMemberID,
		ServiceID:      r.ServiceID,
		Kind:           r.Kind,
		ScheduledAt:    scheduledAt,
		Notes:          r.Notes,
		Recurrence:     r.Recurrence,
	}

	if r.RecurrenceEndDate != nil {
		end, err := time.ParseInLocation(domain.DateFormat, *r.RecurrenceEndDate, scheduledAt.Location())
		if err != nil {
			return nil, fmt.Errorf("recurrenceEndDate: %w", err)
		}
		req.RecurrenceEndDate = &end
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	occurrences := make([]string, len(resp.Occurrences))
	for i, at := range resp.Occurrences {
		occurrences[i] = at.Format(time.RFC3339)
	}

	return &CreateBookingResponse{
		BookingIDs:      resp.BookingIDs,
		SeriesID:        resp.SeriesID,
		Occurrences:     occurrences,
		Status:          resp.Status,
		DurationMinutes: resp.DurationMinutes,
	}
}
