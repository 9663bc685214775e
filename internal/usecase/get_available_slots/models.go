package get_available_slots

import (
	"github.com/m04kA/AppointmentService/internal/domain"
)

// Request модель запроса на получение доступности провайдера
type Request struct {
	UserID     int64  // ID пользователя (для логирования, не влияет на результат)
	ProviderID int64  // ID провайдера
	ServiceID  *int64 // ID услуги (опционально, влияет на выбор настроек)
	Days       *int   // Переопределение горизонта, 1..60 (опционально)
}

// Response модель ответа с доступностью по дням
type Response struct {
	ProviderID  int64
	ServiceID   *int64
	SlotMinutes int
	Days        []domain.DayAvailability
}
