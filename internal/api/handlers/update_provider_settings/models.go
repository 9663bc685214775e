package update_provider_settings

import (
	"github.com/m04kA/AppointmentService/internal/domain"
	"github.com/m04kA/AppointmentService/internal/service/settings/models"
)

// UpdateProviderSettingsRequest HTTP request model
// serviceId выбирает уровень настроек, не переданные поля не меняются
type UpdateProviderSettingsRequest struct {
	ServiceID               *int64 `json:"serviceId,omitempty"`
	SlotDurationMinutes     *int   `json:"slotDurationMinutes,omitempty"`
	AdvanceBookingDays      *int   `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int   `json:"minBookingNoticeMinutes,omitempty"`
}

// ToUpdateRequest запрос на изменение существующего уровня
func (r *UpdateProviderSettingsRequest) ToUpdateRequest(userID int64) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		UserID:                  userID,
		SlotDurationMinutes:     r.SlotDurationMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}

// ToCreateRequest запрос на создание уровня, пропущенные поля наследуются от base
func (r *UpdateProviderSettingsRequest) ToCreateRequest(providerID, userID int64, base *domain.ProviderBookingSettings) *models.CreateSettingsRequest {
	req := &models.CreateSettingsRequest{
		UserID:                  userID,
		ProviderID:              providerID,
		ServiceID:               r.ServiceID,
		SlotDurationMinutes:     base.SlotDurationMinutes,
		AdvanceBookingDays:      base.AdvanceBookingDays,
		MinBookingNoticeMinutes: base.MinBookingNoticeMinutes,
	}
	if r.SlotDurationMinutes != nil {
		req.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.AdvanceBookingDays != nil {
		req.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		req.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	return req
}

// sameLevel настройки сохранены именно для запрошенного уровня, а не унаследованы
func sameLevel(s *domain.ProviderBookingSettings, serviceID *int64) bool {
	if s.ID == 0 {
		return false
	}
	if s.ServiceID == nil || serviceID == nil {
		return s.ServiceID == nil && serviceID == nil
	}
	return *s.ServiceID == *serviceID
}
