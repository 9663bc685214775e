package create_booking

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	PatientID         int64      // ID пациента (из X-User-ID)
	ProviderID        int64      // ID провайдера
	FamilyMemberID    *int64     // Член семьи пациента (опционально)
	ServiceID         *int64     // Услуга (опционально, задаёт длительность)
	Kind              string     // tour | appointment, по умолчанию appointment при наличии услуги
	ScheduledAt       time.Time  // Время начала
	Notes             *string    // Заметки (опционально)
	Recurrence        string     // none | weekly | biweekly | monthly
	RecurrenceEndDate *time.Time // Последняя дата серии включительно (опционально)
}

// Response модель ответа с созданными бронированиями
type Response struct {
	BookingIDs      []int64     // ID бронирований в порядке вхождений
	SeriesID        *string     // ID серии, если бронирование повторяющееся
	Occurrences     []time.Time // Время каждого вхождения
	Status          string      // Статус созданных бронирований
	DurationMinutes int         // Длительность каждого вхождения
}
