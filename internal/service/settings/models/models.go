package models

import (
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
)

// CreateSettingsRequest запрос на создание настроек бронирования
type CreateSettingsRequest struct {
	UserID                  int64  `json:"userId"`
	ProviderID              int64  `json:"providerId"`
	ServiceID               *int64 `json:"serviceId,omitempty"` // NULL = для всех услуг
	SlotDurationMinutes     int    `json:"slotDurationMinutes"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
}

// UpdateSettingsRequest частичное обновление, меняются только переданные поля
type UpdateSettingsRequest struct {
	UserID                  int64 `json:"userId"`
	SlotDurationMinutes     *int  `json:"slotDurationMinutes,omitempty"`
	AdvanceBookingDays      *int  `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int  `json:"minBookingNoticeMinutes,omitempty"`
}

// SettingsResponse ответ с настройками бронирования
// ID = 0 и IsDefault = true, если у провайдера нет сохранённых настроек
type SettingsResponse struct {
	ID                      int64      `json:"id"`
	ProviderID              int64      `json:"providerId"`
	ServiceID               *int64     `json:"serviceId,omitempty"`
	SlotDurationMinutes     int        `json:"slotDurationMinutes"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	IsDefault               bool       `json:"isDefault"`
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// SettingsListResponse ответ со списком настроек
type SettingsListResponse struct {
	Settings []SettingsResponse `json:"settings"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.ProviderBookingSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	resp := &SettingsResponse{
		ID:                      s.ID,
		ProviderID:              s.ProviderID,
		ServiceID:               s.ServiceID,
		SlotDurationMinutes:     s.SlotDurationMinutes,
		AdvanceBookingDays:      s.AdvanceBookingDays,
		MinBookingNoticeMinutes: s.MinBookingNoticeMinutes,
		IsDefault:               s.ID == 0,
	}
	if !s.CreatedAt.IsZero() {
		resp.CreatedAt = &s.CreatedAt
		resp.UpdatedAt = &s.UpdatedAt
	}
	return resp
}

// FromDomainSettingsList конвертирует список domain моделей в DTO
func FromDomainSettingsList(list []*domain.ProviderBookingSettings) *SettingsListResponse {
	resp := &SettingsListResponse{
		Settings: make([]SettingsResponse, 0, len(list)),
	}
	for _, s := range list {
		if item := FromDomainSettings(s); item != nil {
			resp.Settings = append(resp.Settings, *item)
		}
	}
	return resp
}

// ToDomainSettings конвертирует CreateSettingsRequest в domain модель
func (r *CreateSettingsRequest) ToDomainSettings() *domain.ProviderBookingSettings {
	return &domain.ProviderBookingSettings{
		ProviderID:              r.ProviderID,
		ServiceID:               r.ServiceID,
		SlotDurationMinutes:     r.SlotDurationMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}

// ApplyToSettings применяет непустые поля запроса
func (r *UpdateSettingsRequest) ApplyToSettings(s *domain.ProviderBookingSettings) {
	if r.SlotDurationMinutes != nil {
		s.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.AdvanceBookingDays != nil {
		s.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		s.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
}
