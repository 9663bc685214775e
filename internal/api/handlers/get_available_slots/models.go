package get_available_slots

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/AppointmentService/internal/usecase/get_available_slots"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ProviderID  int64             `json:"providerId"`
	ServiceID   *int64            `json:"serviceId,omitempty"`
	SlotMinutes int               `json:"slotMinutes"`
	Days        []DayAvailability `json:"days"`
}

// DayAvailability один день горизонта, у закрытого дня slots пустой
type DayAvailability struct {
	Date           string          `json:"date"` // YYYY-MM-DD
	AvailableCount int             `json:"availableCount"`
	Slots          []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"` // RFC3339
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	days := make([]DayAvailability, len(resp.Days))
	for i := range resp.Days {
		day := &resp.Days[i]
		slots := make([]AvailableSlot, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = AvailableSlot{
				StartTime: slot.StartTime.Format(timeLayout),
				Available: slot.Available,
			}
		}
		days[i] = DayAvailability{
			Date:           day.Date.Format(domain.DateFormat),
			AvailableCount: day.AvailableCount(),
			Slots:          slots,
		}
	}

	return &AvailabilityResponse{
		ProviderID:  resp.ProviderID,
		ServiceID:   resp.ServiceID,
		SlotMinutes: resp.SlotMinutes,
		Days:        days,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров serviceId и days
func ToUseCaseRequest(providerID, userID int64, query url.Values) (*getAvailableSlots.Request, error) {
	req := &getAvailableSlots.Request{
		UserID:     userID,
		ProviderID: providerID,
	}

	if s := query.Get("serviceId"); s != "" {
		serviceID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("serviceId: %w", err)
		}
		req.ServiceID = &serviceID
	}

	if s := query.Get("days"); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("days: %w", err)
		}
		req.Days = &days
	}

	return req, nil
}
