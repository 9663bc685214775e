package domain

import "time"

// ProviderBookingSettings represents the booking configuration for a provider
// Supports hierarchical configuration:
// 1. Specific service (provider_id, service_id)
// 2. Provider-wide (provider_id, NULL)
type ProviderBookingSettings struct {
	ID                      int64
	ProviderID              int64
	ServiceID               *int64 // NULL = settings for all services
	SlotDurationMinutes     int
	AdvanceBookingDays      int
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultBookingSettings returns settings used when the provider has none stored
func DefaultBookingSettings(providerID int64) *ProviderBookingSettings {
	return &ProviderBookingSettings{
		ProviderID:              providerID,
		SlotDurationMinutes:     DefaultSlotDurationMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// IsProviderWide returns true if the settings are not bound to a service
func (s *ProviderBookingSettings) IsProviderWide() bool {
	return s.ServiceID == nil
}

// LeadTime returns the minimum gap between now and a booking
func (s *ProviderBookingSettings) LeadTime() time.Duration {
	return time.Duration(s.MinBookingNoticeMinutes) * time.Minute
}
