package create_booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден или не принимает записи
	ErrProviderNotFound = errors.New("create_booking: provider not found")

	// ErrFamilyMemberNotFound возвращается, когда член семьи не найден у пациента
	ErrFamilyMemberNotFound = errors.New("create_booking: family member not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена у провайдера
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrLeadTimeViolation возвращается, когда до визита меньше минимального времени
	ErrLeadTimeViolation = errors.New("create_booking: too late to book this time")

	// ErrSlotConflict возвращается, когда время занято другим бронированием
	ErrSlotConflict = errors.New("create_booking: slot conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// SlotConflictError конфликт конкретного вхождения
// Для серии содержит дату первого занятого вхождения
type SlotConflictError struct {
	Date time.Time
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%s: occurrence at %s", ErrSlotConflict, e.Date.Format(time.RFC3339))
}

func (e *SlotConflictError) Unwrap() error {
	return ErrSlotConflict
}
