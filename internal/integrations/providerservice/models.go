package providerservice

import (
	"fmt"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
	"github.com/m04kA/AppointmentService/pkg/types"
)

// Provider модель провайдера из каталога провайдеров
type Provider struct {
	ID            int64                 `json:"id"`
	Name          string                `json:"name"`
	Status        domain.ProviderStatus `json:"status"`
	OpeningTime   types.TimeString      `json:"opening_time"`   // HH:MM
	ClosingTime   types.TimeString      `json:"closing_time"`   // HH:MM
	OperatingDays []string              `json:"operating_days"` // Mon..Sun
	ManagerIDs    []int64               `json:"manager_ids"`
}

// IsManager проверяет, что пользователь является менеджером провайдера
func (p *Provider) IsManager(userID int64) bool {
	for _, id := range p.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Profile конвертирует часы и дни работы в доменную модель
// Неизвестные аббревиатуры дней считаются ошибкой
func (p *Provider) Profile() (domain.OperatingProfile, error) {
	if err := p.OpeningTime.Validate(); err != nil {
		return domain.OperatingProfile{}, fmt.Errorf("%w: opening_time: %v", ErrInvalidOperatingProfile, err)
	}
	if err := p.ClosingTime.Validate(); err != nil {
		return domain.OperatingProfile{}, fmt.Errorf("%w: closing_time: %v", ErrInvalidOperatingProfile, err)
	}

	days := make([]time.Weekday, 0, len(p.OperatingDays))
	for _, token := range p.OperatingDays {
		day, ok := domain.ParseWeekday(token)
		if !ok {
			return domain.OperatingProfile{}, fmt.Errorf("%w: unknown day %q", ErrInvalidOperatingProfile, token)
		}
		days = append(days, day)
	}

	return domain.OperatingProfile{
		OpeningTime:   p.OpeningTime,
		ClosingTime:   p.ClosingTime,
		OperatingDays: days,
	}, nil
}

// Service модель услуги провайдера
type Service struct {
	ID              int64  `json:"id"`
	ProviderID      int64  `json:"provider_id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

// ErrorResponse модель ошибки от ProviderService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
